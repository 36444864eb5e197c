// Package debug 记录并绘制关键帧削减过程.
package debug

import (
	"encoding/json"
	"io"

	"keyframe/maths"
	"keyframe/track"
)

// Evaluation 单帧评估结果
type Evaluation struct {
	Pass      int     `json:"pass"`      // 第几轮扫描
	Frame     int     `json:"frame"`     // 帧号
	Deviation float64 `json:"deviation"` // 插值偏差
	Removed   bool    `json:"removed"`   // 是否删除
}

// Record 记录削减过程
type Record struct {
	Channel     string       `json:"channel"`            // 通道名称
	Evaluations []Evaluation `json:"evaluations"`        // 全部评估
	Removed     []int        `json:"removed"`            // 每轮删除数量
	Frames      []int        `json:"frames,omitempty"`   // 逐帧帧号
	Dense       [][]float64  `json:"dense,omitempty"`    // 逐帧分量
	Retained    []int        `json:"retained,omitempty"` // 保留帧
	Values      [][]float64  `json:"values,omitempty"`   // 保留帧分量
}

// NewRecord 创建记录
func NewRecord(channel string) *Record {
	return &Record{Channel: channel}
}

// Evaluate 记录单帧评估
func (r *Record) Evaluate(pass, frame int, deviation float64, removed bool) {
	r.Evaluations = append(r.Evaluations, Evaluation{Pass: pass, Frame: frame, Deviation: deviation, Removed: removed})
}

// Pass 记录一轮扫描
func (r *Record) Pass(pass int, removed int) { r.Removed = append(r.Removed, removed) }

// Passes 扫描轮数
func (r *Record) Passes() int { return len(r.Removed) }

// Width 分量数量
func (r *Record) Width() int {
	if len(r.Dense) == 0 {
		return 0
	}
	return len(r.Dense[0])
}

// Render 格式和输出内容
func (r *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(r) }

// Capture 记录通道逐帧采样与削减后的关键帧
func Capture[V any](r *Record, c *track.Channel[V], k track.Keyframes[V], codec maths.Codec[V]) {
	r.Frames = c.Frames()
	r.Dense = make([][]float64, len(c.Values))
	for i, v := range c.Values {
		r.Dense[i] = codec.Components(v)
	}
	r.Retained = k.Frames()
	r.Values = make([][]float64, len(k))
	for i, kf := range k {
		r.Values[i] = codec.Components(kf.Value)
	}
}

var _ maths.Trace = (*Record)(nil)
