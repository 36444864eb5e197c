package maths

import "gonum.org/v1/gonum/spatial/r3"

// Vector3 三维向量值域（位置、缩放）
type Vector3 struct{}

// Lerp 分量线性插值
func (Vector3) Lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(r3.Scale(1-t, a), r3.Scale(t, b))
}

// Deviation 欧氏距离
func (Vector3) Deviation(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

func (Vector3) Width() int { return 3 }

func (Vector3) Components(v r3.Vec) []float64 { return []float64{v.X, v.Y, v.Z} }

func (Vector3) FromComponents(c []float64) (r3.Vec, error) {
	if err := checkWidth("三维向量", 3, c); err != nil {
		return r3.Vec{}, err
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}
