// Package plan 根据曲线关键点的插值方式确定需要导出的帧.
// 线性与常量段只需要关键点两侧的整数帧,非线性段逐帧采样后再用标量削减去掉冗余帧.
package plan

import (
	"math"
	"slices"

	"keyframe/maths"
	"keyframe/track"
)

// Interpolation 关键点插值方式
type Interpolation int

const (
	Constant Interpolation = iota // 常量
	Linear                        // 线性
	Bezier                        // 贝塞尔,其余方式都按非线性处理
)

var interpolationName = map[Interpolation]string{
	Constant: "CONSTANT",
	Linear:   "LINEAR",
	Bezier:   "BEZIER",
}

// String 返回插值方式名称
func (i Interpolation) String() string {
	if name, ok := interpolationName[i]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsLinear 线性或常量插值
func (i Interpolation) IsLinear() bool { return i == Constant || i == Linear }

// KeyPoint 曲线关键点
type KeyPoint struct {
	Frame         float64       // 关键点所在帧,可以是小数
	Interpolation Interpolation // 到下一个关键点的插值方式
}

// Curve 可求值的动画曲线
type Curve interface {
	KeyPoints() []KeyPoint          // 关键点,按帧号递增
	Evaluate(frame float64) float64 // 指定帧的曲线值
}

// FuncCurve 通过函数求值的曲线
type FuncCurve struct {
	Keys []KeyPoint
	Fn   func(frame float64) float64
}

func (c *FuncCurve) KeyPoints() []KeyPoint { return c.Keys }

func (c *FuncCurve) Evaluate(frame float64) float64 { return c.Fn(frame) }

// ExportFrames 计算曲线需要导出的帧
//
//	threshold: 非线性段的插值偏差阈值,小于等于0时非线性段逐帧全部导出.
//	返回: 递增且不重复的帧号.
func ExportFrames(curve Curve, threshold float64) []int {
	if curve == nil {
		return nil
	}
	keys := curve.KeyPoints()
	if len(keys) == 0 {
		return nil
	}
	result := map[int]struct{}{}
	var nonlinear []int
	wasConstant := false
	for _, kp := range keys {
		left := int(math.Floor(kp.Frame))
		right := int(math.Ceil(kp.Frame))
		result[left] = struct{}{}
		result[right] = struct{}{}
		// 常量段之后落在整数帧上的关键点需要前一帧来保持跳变
		if wasConstant && left == right {
			result[left-1] = struct{}{}
		}
		wasConstant = kp.Interpolation == Constant
		if !kp.Interpolation.IsLinear() {
			nonlinear = append(nonlinear, right)
		}
	}

	sorted := sortedFrames(result)
	for _, start := range nonlinear {
		i, _ := slices.BinarySearch(sorted, start)
		if i >= len(sorted)-1 {
			continue
		}
		end := sorted[i+1]
		if start == end-1 {
			continue
		}
		for _, f := range sampleSegment(curve, start, end, threshold) {
			result[f] = struct{}{}
		}
	}
	return sortedFrames(result)
}

// sampleSegment 非线性段逐帧采样并削减
func sampleSegment(curve Curve, start, end int, threshold float64) []int {
	c := track.NewChannel[float64]("", start)
	for f := start; f <= end; f++ {
		c.Append(curve.Evaluate(float64(f)))
	}
	return maths.Reduce[float64](c.Frames(), c, threshold, maths.Scalar{})
}

// sortedFrames 集合转为递增序列
func sortedFrames(set map[int]struct{}) []int {
	frames := make([]int, 0, len(set))
	for f := range set {
		frames = append(frames, f)
	}
	slices.Sort(frames)
	return frames
}

// Sample 烘焙后的一帧
type Sample struct {
	Frame  int       // 相对起始帧的帧号
	Values []float64 // 每条曲线在该帧的值
}

// Bake 合并多条曲线的导出帧并求值
// 结果总是包含 start 与 end,曲线为 nil 时对应分量使用 fallback.
func Bake(curves []Curve, start, end int, threshold, fallback float64) []Sample {
	set := map[int]struct{}{start: {}, end: {}}
	for _, curve := range curves {
		for _, f := range ExportFrames(curve, threshold) {
			set[f] = struct{}{}
		}
	}
	frames := sortedFrames(set)
	result := make([]Sample, len(frames))
	for i, f := range frames {
		values := make([]float64, len(curves))
		for j, curve := range curves {
			if curve == nil {
				values[j] = fallback
				continue
			}
			values[j] = curve.Evaluate(float64(f))
		}
		result[i] = Sample{Frame: f - start, Values: values}
	}
	return result
}
