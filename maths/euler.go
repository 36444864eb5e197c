package maths

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/num/quat"
)

// Euler 欧拉角值域（弧度存储）
// @ 偏差以角度为单位,不处理 ±180° 回绕:跨越边界的跳变只会产生更大的偏差而被保留.
type Euler struct{}

// Lerp 三个轴角分量线性插值
func (Euler) Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// Deviation 三个分量欧氏距离,换算为角度
func (Euler) Deviation(a, b mgl64.Vec3) float64 {
	return mgl64.RadToDeg(a.Sub(b).Len())
}

func (Euler) Width() int { return 3 }

func (Euler) Components(v mgl64.Vec3) []float64 { return []float64{v[0], v[1], v[2]} }

func (Euler) FromComponents(c []float64) (mgl64.Vec3, error) {
	if err := checkWidth("欧拉角", 3, c); err != nil {
		return mgl64.Vec3{}, err
	}
	return mgl64.Vec3{c[0], c[1], c[2]}, nil
}

// Complementary 计算补充帧
// 相邻两帧任意轴的跳变达到 π 时,矩阵转换无法区分旋转方向,
// 需要在 previous 与 current 之间插入 floor(maxdif/π)+1 个中间欧拉角.
// 跳变小于 π 时返回 nil.
func Complementary(previous, current mgl64.Vec3) []mgl64.Vec3 {
	dif := current.Sub(previous)
	maxdif := math.Max(math.Abs(dif[0]), math.Max(math.Abs(dif[1]), math.Abs(dif[2])))
	n := int(math.Floor(maxdif / math.Pi))
	if n == 0 {
		return nil
	}
	// 多生成一个避免舍入误差,最后一个不能等于 current
	n++
	fac := 1.0 / float64(n+1)
	result := make([]mgl64.Vec3, n)
	for i := range n {
		result[i] = previous.Add(dif.Mul(fac * float64(i+1)))
	}
	return result
}

// PositiveAngles 将每个轴的角度折算到 [0, 2π)
func PositiveAngles(e mgl64.Vec3) mgl64.Vec3 {
	for i, v := range e {
		v = math.Mod(v, 2*math.Pi)
		if v < 0 {
			v += 2 * math.Pi
		}
		if v >= 2*math.Pi {
			v = 0
		}
		e[i] = v
	}
	return e
}

// EulerToQuaternion 欧拉角转四元数
// zyx 为真时按 ZYX 顺序旋转,否则按 XYZ 顺序.
func EulerToQuaternion(e mgl64.Vec3, zyx bool) quat.Number {
	var q mgl64.Quat
	if zyx {
		q = mgl64.AnglesToQuat(e[2], e[1], e[0], mgl64.ZYX)
	} else {
		q = mgl64.AnglesToQuat(e[0], e[1], e[2], mgl64.XYZ)
	}
	return quat.Number{Real: q.W, Imag: q.V[0], Jmag: q.V[1], Kmag: q.V[2]}
}
