package track

import "slices"

// Keyframe 保留下来的关键帧
type Keyframe[V any] struct {
	Frame int // 帧号
	Value V   // 采样值
}

// Keyframes 按帧号递增的关键帧列表
type Keyframes[V any] []Keyframe[V]

// Frames 关键帧帧号
func (k Keyframes[V]) Frames() []int {
	frames := make([]int, len(k))
	for i, kf := range k {
		frames[i] = kf.Frame
	}
	return frames
}

// At 获取关键帧的值,只包含保留的帧
func (k Keyframes[V]) At(frame int) (v V, ok bool) {
	i, ok := slices.BinarySearchFunc(k, frame, func(kf Keyframe[V], f int) int { return kf.Frame - f })
	if !ok {
		return v, false
	}
	return k[i].Value, true
}

// Map 逐个转换关键帧的值
func Map[V, W any](k Keyframes[V], fn func(V) W) Keyframes[W] {
	result := make(Keyframes[W], len(k))
	for i, kf := range k {
		result[i] = Keyframe[W]{Frame: kf.Frame, Value: fn(kf.Value)}
	}
	return result
}
