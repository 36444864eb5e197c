package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearCurve(keys ...KeyPoint) *FuncCurve {
	return &FuncCurve{Keys: keys, Fn: func(f float64) float64 { return f * 2 }}
}

// TestExportFramesLinear 线性关键点只导出两侧整数帧
func TestExportFramesLinear(t *testing.T) {
	c := linearCurve(
		KeyPoint{Frame: 0, Interpolation: Linear},
		KeyPoint{Frame: 2.5, Interpolation: Linear},
		KeyPoint{Frame: 10, Interpolation: Linear},
	)
	assert.Equal(t, []int{0, 2, 3, 10}, ExportFrames(c, 0.1))
	assert.Nil(t, ExportFrames(linearCurve(), 0.1))
	assert.Nil(t, ExportFrames(nil, 0.1))
}

// TestExportFramesConstant 常量段之后的关键点带上前一帧
func TestExportFramesConstant(t *testing.T) {
	c := linearCurve(
		KeyPoint{Frame: 0, Interpolation: Constant},
		KeyPoint{Frame: 5, Interpolation: Linear},
		KeyPoint{Frame: 9, Interpolation: Linear},
	)
	assert.Equal(t, []int{0, 4, 5, 9}, ExportFrames(c, 0))
}

// TestExportFramesNonlinear 非线性段逐帧采样后削减
func TestExportFramesNonlinear(t *testing.T) {
	keys := []KeyPoint{
		{Frame: 0, Interpolation: Bezier},
		{Frame: 10, Interpolation: Linear},
	}

	// 实际上是直线,削减后只剩端点
	straight := &FuncCurve{Keys: keys, Fn: func(f float64) float64 { return 3*f + 1 }}
	assert.Equal(t, []int{0, 10}, ExportFrames(straight, 0.01))

	curved := &FuncCurve{Keys: keys, Fn: func(f float64) float64 { return f * f }}
	all := ExportFrames(curved, 0)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, all)

	reduced := ExportFrames(curved, 1.5)
	assert.Less(t, len(reduced), len(all))
	assert.Greater(t, len(reduced), 2)
	assert.Equal(t, 0, reduced[0])
	assert.Equal(t, 10, reduced[len(reduced)-1])
}

// TestExportFramesNonlinearEdges 最后一个关键点或相邻帧不采样
func TestExportFramesNonlinearEdges(t *testing.T) {
	c := &FuncCurve{
		Keys: []KeyPoint{
			{Frame: 0, Interpolation: Linear},
			{Frame: 3, Interpolation: Bezier},
			{Frame: 4, Interpolation: Linear},
			{Frame: 8, Interpolation: Bezier},
		},
		Fn: func(f float64) float64 { return f * f },
	}
	assert.Equal(t, []int{0, 3, 4, 8}, ExportFrames(c, 0))
}

// TestBake 合并导出帧并按相对帧号求值
func TestBake(t *testing.T) {
	x := linearCurve(KeyPoint{Frame: 12, Interpolation: Linear}, KeyPoint{Frame: 15, Interpolation: Linear})
	y := &FuncCurve{
		Keys: []KeyPoint{{Frame: 11, Interpolation: Linear}},
		Fn:   func(float64) float64 { return 7 },
	}
	samples := Bake([]Curve{x, y, nil}, 10, 20, 0.1, -1)
	require.Len(t, samples, 5)

	frames := make([]int, len(samples))
	for i, s := range samples {
		frames[i] = s.Frame
	}
	assert.Equal(t, []int{0, 1, 2, 5, 10}, frames)
	assert.Equal(t, []float64{24, 7, -1}, samples[2].Values)
	assert.Equal(t, []float64{40, 7, -1}, samples[4].Values)
}

func TestInterpolationString(t *testing.T) {
	assert.Equal(t, "BEZIER", Bezier.String())
	assert.Equal(t, "UNKNOWN", Interpolation(42).String())
	assert.True(t, Constant.IsLinear())
	assert.False(t, Interpolation(42).IsLinear())
}
