package maths

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
)

// denseFrames 生成 [start, end] 的连续帧
func denseFrames(start, end int) []int {
	frames := make([]int, 0, end-start+1)
	for f := start; f <= end; f++ {
		frames = append(frames, f)
	}
	return frames
}

// scalarLookup 从 start 帧开始的标量采样
func scalarLookup(start int, values ...float64) MapLookup[float64] {
	m := MapLookup[float64]{}
	for i, v := range values {
		m[start+i] = v
	}
	return m
}

// recorder 记录评估过的帧
type recorder struct {
	evaluated map[int]int
	passes    []int
}

func (r *recorder) Evaluate(pass, frame int, deviation float64, removed bool) {
	if r.evaluated == nil {
		r.evaluated = map[int]int{}
	}
	r.evaluated[frame]++
}

func (r *recorder) Pass(pass int, removed int) { r.passes = append(r.passes, removed) }

// TestReduceCollinear 三个共线采样,中间帧被删除
func TestReduceCollinear(t *testing.T) {
	values := scalarLookup(0, 0, 5, 10)
	got := Reduce([]int{0, 1, 2}, values, 0.01, Scalar{})
	assert.Equal(t, []int{0, 2}, got)
}

// TestReduceChained 连续多帧线性,需要在删除后重新评估
func TestReduceChained(t *testing.T) {
	values := scalarLookup(0, 0, 2.5, 5, 7.5, 10)
	got := Reduce([]int{0, 1, 2, 3, 4}, values, 0.01, Scalar{})
	assert.Equal(t, []int{0, 4}, got)
}

// TestReduceOutlier 偏差大的内部帧保护了相邻帧
func TestReduceOutlier(t *testing.T) {
	values := scalarLookup(0, 0, 2, 50, 6, 8)
	got := Reduce([]int{0, 1, 2, 3, 4}, values, 1.0, Scalar{})
	assert.Contains(t, got, 2)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

// TestReduceQuaternionNoNormalize 插值后的四元数不做归一化
func TestReduceQuaternionNoNormalize(t *testing.T) {
	a := quat.Number{Real: 1}
	b := quat.Number{Imag: 1}

	mid := Quaternion{}.Lerp(a, b, 0.5)
	assert.Equal(t, quat.Number{Real: 0.5, Imag: 0.5}, mid)
	assert.InDelta(t, math.Sqrt(0.5), quat.Abs(mid), 1e-12)

	// 分量插值的中点可以被删除
	linear := MapLookup[quat.Number]{0: a, 1: mid, 2: b}
	assert.Equal(t, []int{0, 2}, Reduce([]int{0, 1, 2}, linear, 1e-6, Quaternion{}))

	// 归一化后的中点与分量插值相差 1-√½ 的两倍分量
	s := math.Sqrt(0.5)
	normalized := MapLookup[quat.Number]{0: a, 1: {Real: s, Imag: s}, 2: b}
	assert.Equal(t, []int{0, 1, 2}, Reduce([]int{0, 1, 2}, normalized, 0.1, Quaternion{}))
}

// TestReduceSubRange 范围外的帧不会被评估或删除
func TestReduceSubRange(t *testing.T) {
	frames := denseFrames(0, 10)
	values := MapLookup[float64]{}
	for _, f := range frames {
		values[f] = float64(f)
	}
	trace := &recorder{}
	r := NewReducer[float64](Scalar{}, 0.01)
	r.Trace = trace
	got := r.ReduceRange(frames, values, 2, 8)

	assert.Equal(t, []int{0, 1, 2, 8, 9, 10}, got)
	for _, f := range []int{0, 1, 2, 8, 9, 10} {
		assert.Zero(t, trace.evaluated[f], "帧 %d 不应被评估", f)
	}
	assert.Equal(t, 0, trace.passes[len(trace.passes)-1])
}

// TestReduceNoop 阈值非正或范围不足时原样返回
func TestReduceNoop(t *testing.T) {
	values := scalarLookup(0, 0, 1, 2, 3, 4)
	frames := []int{0, 1, 2, 3, 4}

	assert.Equal(t, frames, Reduce(frames, values, 0, Scalar{}))
	assert.Equal(t, frames, Reduce(frames, values, -1, Scalar{}))
	assert.Equal(t, frames, ReduceRange(frames, values, 1, 2, 10, Scalar{}))
	assert.Equal(t, frames, ReduceRange(frames, values, 3, 4, 10, Scalar{}))
	assert.Empty(t, Reduce([]int{}, values, 1, Scalar{}))
}

// TestReduceThresholdBoundary 偏差等于阈值时保留
func TestReduceThresholdBoundary(t *testing.T) {
	values := scalarLookup(0, 0, 1.5, 2)
	// 预测值 1,实际 1.5,偏差恰好 0.5
	assert.Equal(t, []int{0, 1, 2}, Reduce([]int{0, 1, 2}, values, 0.5, Scalar{}))
	assert.Equal(t, []int{0, 2}, Reduce([]int{0, 1, 2}, values, 0.5000001, Scalar{}))
}

// TestReduceProperties 幂等、端点保留、单调收缩
func TestReduceProperties(t *testing.T) {
	frames := denseFrames(0, 120)
	values := MapLookup[float64]{}
	for _, f := range frames {
		values[f] = math.Sin(float64(f)/9) * 4
	}
	for _, threshold := range []float64{0.001, 0.01, 0.1, 0.5, 2} {
		once := Reduce(frames, values, threshold, Scalar{})
		require.NotEmpty(t, once)
		assert.Equal(t, 0, once[0])
		assert.Equal(t, 120, once[len(once)-1])
		assert.LessOrEqual(t, len(once), len(frames))
		assert.IsIncreasing(t, once)

		trace := &recorder{}
		r := NewReducer[float64](Scalar{}, threshold)
		r.Trace = trace
		twice := r.Reduce(once, values)
		assert.Equal(t, once, twice, "threshold %v", threshold)
		assert.Equal(t, []int{0}, trace.passes)
	}
}

// TestReduceInputUntouched 输入序列不被修改
func TestReduceInputUntouched(t *testing.T) {
	frames := []int{0, 1, 2, 3}
	values := scalarLookup(0, 0, 1, 2, 3)
	got := Reduce(frames, values, 0.5, Scalar{})
	assert.Equal(t, []int{0, 3}, got)
	assert.Equal(t, []int{0, 1, 2, 3}, frames)
}

// TestReduceNonContiguous 已被削减过的序列可以再次按区间削减
func TestReduceNonContiguous(t *testing.T) {
	values := scalarLookup(0, 9, 0, 1, 2, 3, 4, 5, 6)
	frames := []int{0, 1, 3, 5, 7}
	got := ReduceRange(frames, values, 1, 7, 0.01, Scalar{})
	assert.Equal(t, []int{0, 1, 7}, got)
}

// TestReducePrecondition 前置条件不满足时直接 panic
func TestReducePrecondition(t *testing.T) {
	values := scalarLookup(0, 0, 1, 2, 3)
	cases := map[string]func(){
		"unsorted":      func() { Reduce([]int{0, 2, 1, 3}, values, 1, Scalar{}) },
		"duplicate":     func() { Reduce([]int{0, 1, 1, 3}, values, 1, Scalar{}) },
		"missing start": func() { ReduceRange([]int{0, 1, 2, 3}, values, 5, 3, 1, Scalar{}) },
		"missing end":   func() { ReduceRange([]int{0, 1, 2, 3}, values, 0, 9, 1, Scalar{}) },
		"reversed":      func() { ReduceRange([]int{0, 1, 2, 3}, values, 3, 0, 1, Scalar{}) },
		"missing value": func() { Reduce([]int{0, 1, 2, 3, 4}, values, 1, Scalar{}) },
		"nil domain":    func() { NewReducer[float64](nil, 1).Reduce([]int{0, 1, 2}, values) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				_, ok := r.(*PreconditionError)
				assert.True(t, ok, "panic 值应为 *PreconditionError: %v", r)
			}()
			fn()
		})
	}
}
