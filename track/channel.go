// Package track 提供逐帧采样通道及其削减结果.
// 通道由采样阶段按连续整数帧填充,削减后得到的关键帧交给编码阶段输出.
package track

import (
	"fmt"

	"keyframe/maths"
)

// Channel 单个独立动画通道的逐帧采样
// @ Values[i] 对应第 Start+i 帧,帧号连续.
type Channel[V any] struct {
	Name   string // 通道名称
	Start  int    // 起始帧
	Values []V    // 逐帧采样值
}

// NewChannel 创建通道
func NewChannel[V any](name string, start int, values ...V) *Channel[V] {
	return &Channel[V]{Name: name, Start: start, Values: values}
}

// Len 采样数量
func (c *Channel[V]) Len() int { return len(c.Values) }

// End 结束帧（包含）
func (c *Channel[V]) End() int { return c.Start + len(c.Values) - 1 }

// At 获取指定帧的采样值
func (c *Channel[V]) At(frame int) (v V, ok bool) {
	i := frame - c.Start
	if i < 0 || i >= len(c.Values) {
		return v, false
	}
	return c.Values[i], true
}

// Frames 全部帧号
func (c *Channel[V]) Frames() []int {
	frames := make([]int, len(c.Values))
	for i := range frames {
		frames[i] = c.Start + i
	}
	return frames
}

// Append 追加下一帧的采样值
func (c *Channel[V]) Append(v V) { c.Values = append(c.Values, v) }

// Check 检查通道是否可以削减
func (c *Channel[V]) Check() error {
	if c == nil {
		return fmt.Errorf("通道为空")
	}
	if len(c.Values) == 0 {
		return fmt.Errorf("通道 %q 没有采样", c.Name)
	}
	return nil
}

// Keyframes 保留帧全部展开为关键帧
func (c *Channel[V]) Keyframes() Keyframes[V] { return c.Pick(c.Frames()) }

// Pick 按帧号取出关键帧,帧号必须在通道范围内
func (c *Channel[V]) Pick(frames []int) Keyframes[V] {
	result := make(Keyframes[V], len(frames))
	for i, f := range frames {
		v, _ := c.At(f)
		result[i] = Keyframe[V]{Frame: f, Value: v}
	}
	return result
}

// Reduce 削减整个通道
func Reduce[V any](c *Channel[V], domain maths.Domain[V], threshold float64, trace maths.Trace) (Keyframes[V], error) {
	if err := c.Check(); err != nil {
		return nil, err
	}
	r := maths.NewReducer(domain, threshold)
	r.Trace = trace
	return c.Pick(r.Reduce(c.Frames(), c)), nil
}

// ReduceSegments 在相邻锚点帧之间分段削减
// @ 锚点帧本身总是保留,锚点之外的帧不参与削减.
func ReduceSegments[V any](c *Channel[V], anchors []int, domain maths.Domain[V], threshold float64, trace maths.Trace) (Keyframes[V], error) {
	if err := c.Check(); err != nil {
		return nil, err
	}
	for i, a := range anchors {
		if a < c.Start || a > c.End() {
			return nil, fmt.Errorf("通道 %q 锚点帧 %d 超出范围 [%d, %d]", c.Name, a, c.Start, c.End())
		}
		if i > 0 && a <= anchors[i-1] {
			return nil, fmt.Errorf("通道 %q 锚点帧必须递增: %d 在 %d 之后", c.Name, a, anchors[i-1])
		}
	}
	r := maths.NewReducer(domain, threshold)
	r.Trace = trace
	frames := c.Frames()
	for i := 1; i < len(anchors); i++ {
		frames = r.ReduceRange(frames, c, anchors[i-1], anchors[i])
	}
	return c.Pick(frames), nil
}
