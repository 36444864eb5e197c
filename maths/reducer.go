package maths

import (
	"slices"

	"keyframe/utils"
)

// Reducer 关键帧偏差削减器
// 删除那些可以由左右保留帧线性插值、且偏差小于阈值的内部帧,
// 反复扫描直到某一轮没有删除任何帧为止.
type Reducer[V any] struct {
	Domain    Domain[V] // 值域
	Threshold float64   // 偏差阈值,小于等于0时不做削减
	Trace     Trace     // 过程跟踪,可以为空
}

// NewReducer 创建削减器
func NewReducer[V any](domain Domain[V], threshold float64) *Reducer[V] {
	return &Reducer[V]{Domain: domain, Threshold: threshold}
}

// Reduce 对整个帧序列进行削减
func Reduce[V any](frames []int, values Lookup[V], threshold float64, domain Domain[V]) []int {
	return NewReducer(domain, threshold).Reduce(frames, values)
}

// ReduceRange 只在 [start, end] 范围内削减
func ReduceRange[V any](frames []int, values Lookup[V], start, end int, threshold float64, domain Domain[V]) []int {
	return NewReducer(domain, threshold).ReduceRange(frames, values, start, end)
}

// Reduce 以首帧与末帧作为范围削减整个序列,空序列原样返回.
func (r *Reducer[V]) Reduce(frames []int, values Lookup[V]) []int {
	if len(frames) == 0 {
		return frames
	}
	return r.ReduceRange(frames, values, frames[0], frames[len(frames)-1])
}

// ReduceRange 在闭区间 [start, end] 内削减帧序列
//
//	frames: 严格递增的保留帧序列,start 与 end 必须在其中.
//	values: 帧值映射,需要覆盖 frames 中的每一帧.
//	返回: 新的保留帧序列;范围不足三帧或阈值小于等于0时原样返回 frames.
//
// 范围外的帧既不参与评估也不会被删除,frames 与 values 本身不会被修改.
func (r *Reducer[V]) ReduceRange(frames []int, values Lookup[V], start, end int) []int {
	const op = "ReduceRange"
	if r.Domain == nil {
		precondition(op, "值域为空")
	}
	for i := 1; i < len(frames); i++ {
		if frames[i] <= frames[i-1] {
			precondition(op, "帧序列不是严格递增: 位置 %d 的帧 %d 不大于前一帧 %d", i, frames[i], frames[i-1])
		}
	}
	from, ok := slices.BinarySearch(frames, start)
	if !ok {
		precondition(op, "起始帧 %d 不在帧序列中", start)
	}
	to, ok := slices.BinarySearch(frames, end)
	if !ok {
		precondition(op, "结束帧 %d 不在帧序列中", end)
	}
	if from > to {
		precondition(op, "起始帧 %d 大于结束帧 %d", start, end)
	}
	if end-start < 2 || r.Threshold <= 0 {
		return frames
	}

	get := func(frame int) V {
		v, ok := values.At(frame)
		if !ok {
			precondition(op, "帧 %d 没有采样值", frame)
		}
		return v
	}

	// 按输入位置建立双向链表,保留标记与链表同步更新
	n := len(frames)
	prev := make([]int, n)
	next := make([]int, n)
	for i := range n {
		prev[i] = i - 1
		next[i] = i + 1
	}
	retained := utils.NewBitmap(n, true)

	for pass := 1; ; pass++ {
		removed := 0
		// 删除当前帧后游标移到原来的下一帧,它会与同一个前驱重新比较
		for i := next[from]; i != to; i = next[i] {
			p, q := prev[i], next[i]
			previous, current, following := frames[p], frames[i], frames[q]
			t := float64(current-previous) / float64(following-previous)
			predicted := r.Domain.Lerp(get(previous), get(following), t)
			deviation := r.Domain.Deviation(predicted, get(current))
			drop := deviation < r.Threshold
			if r.Trace != nil {
				r.Trace.Evaluate(pass, current, deviation, drop)
			}
			if drop {
				next[p] = q
				prev[q] = p
				retained.Set(i, false)
				removed++
			}
		}
		if r.Trace != nil {
			r.Trace.Pass(pass, removed)
		}
		if removed == 0 {
			break
		}
	}

	result := make([]int, 0, retained.Count())
	retained.Each(func(i int) bool {
		result = append(result, frames[i])
		return true
	})
	return result
}
