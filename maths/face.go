package maths

import "fmt"

// Domain 值域接口
// @ 每种通道值类型提供自己的线性插值与偏差计算,削减算法只依赖这两个函数.
type Domain[V any] interface {
	Lerp(a, b V, t float64) V // 在 t∈[0,1] 处线性插值
	Deviation(a, b V) float64 // 两个值之间的非负距离
}

// Codec 值与分量之间的转换
// @ 文本格式与曲线绘制只处理 float64 分量,通过该接口与具体值类型互转.
type Codec[V any] interface {
	Width() int                            // 分量数量
	Components(v V) []float64              // 值展开为分量
	FromComponents(c []float64) (V, error) // 分量还原为值
}

// Lookup 帧到采样值的映射
// @ 被削减掉的帧在整个削减过程中仍然必须可以查询.
type Lookup[V any] interface {
	At(frame int) (V, bool) // 获取指定帧的采样值
}

// MapLookup 基于 map 的帧值映射
type MapLookup[V any] map[int]V

// At 获取指定帧的采样值
func (m MapLookup[V]) At(frame int) (V, bool) {
	v, ok := m[frame]
	return v, ok
}

// Trace 削减过程跟踪接口
// @ 为空时不做任何记录,调试时由 debug.Record 实现.
type Trace interface {
	Evaluate(pass, frame int, deviation float64, removed bool) // 单帧评估结果
	Pass(pass int, removed int)                                // 一轮扫描结束
}

// PreconditionError 调用方违反前置条件
// @ 属于上游采样阶段的程序错误,削减器直接 panic 而不是尝试恢复.
type PreconditionError struct {
	Op     string // 出错的操作
	Reason string // 原因
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("maths: %s: 前置条件不满足: %s", e.Op, e.Reason)
}

// precondition 抛出前置条件错误
func precondition(op, format string, args ...any) {
	panic(&PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...)})
}

// checkWidth 检查分量数量
func checkWidth(name string, want int, c []float64) error {
	if len(c) != want {
		return fmt.Errorf("%s 分量数量错误: 需要 %d，得到 %d", name, want, len(c))
	}
	return nil
}
