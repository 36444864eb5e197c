package maths

import "math"

// Scalar 标量值域
// @ 一维通道,例如相机视角或单独的属性曲线.
type Scalar struct{}

// Lerp 线性插值
func (Scalar) Lerp(a, b float64, t float64) float64 { return a*(1-t) + b*t }

// Deviation 差的绝对值
func (Scalar) Deviation(a, b float64) float64 { return math.Abs(a - b) }

func (Scalar) Width() int { return 1 }

func (Scalar) Components(v float64) []float64 { return []float64{v} }

func (Scalar) FromComponents(c []float64) (float64, error) {
	if err := checkWidth("标量", 1, c); err != nil {
		return 0, err
	}
	return c[0], nil
}
