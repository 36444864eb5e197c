package maths

import (
	"gonum.org/v1/gonum/num/quat"
)

// Quaternion 四元数值域
// @ 插值按四个分量逐一线性插值,不做球面插值也不重新归一化.
// @ 只在逐帧采样的相邻值之间比较,角度步长很小,分量插值是足够的局部近似,
// @ 同时保证与原有导出结果一致.
type Quaternion struct{}

// Lerp 分量线性插值（不归一化）
func (Quaternion) Lerp(a, b quat.Number, t float64) quat.Number {
	return quat.Add(quat.Scale(1-t, a), quat.Scale(t, b))
}

// Deviation 四个原始分量上的欧氏距离
func (Quaternion) Deviation(a, b quat.Number) float64 {
	return quat.Abs(quat.Sub(a, b))
}

func (Quaternion) Width() int { return 4 }

// Components 分量顺序为 W X Y Z
func (Quaternion) Components(v quat.Number) []float64 {
	return []float64{v.Real, v.Imag, v.Jmag, v.Kmag}
}

func (Quaternion) FromComponents(c []float64) (quat.Number, error) {
	if err := checkWidth("四元数", 4, c); err != nil {
		return quat.Number{}, err
	}
	return quat.Number{Real: c[0], Imag: c[1], Jmag: c[2], Kmag: c[3]}, nil
}
