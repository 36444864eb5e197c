// Package keyframe 动画关键帧削减.
//
// 采样阶段把每个通道按连续整数帧展开,Optimizer 对各通道独立削减,
// 得到的关键帧交给编码阶段输出.
package keyframe

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"keyframe/config"
	"keyframe/maths"
	"keyframe/plan"
	"keyframe/track"
	"keyframe/types"
)

// 通道名称
const (
	ChannelPosition   = "position"
	ChannelRotation   = "rotation"
	ChannelScale      = "scale"
	ChannelQuaternion = "quaternion"
)

// Set 一个节点的全部动画通道
// @ 欧拉角与四元数旋转最多只有一个.
type Set struct {
	Name               string                             // 节点名称
	Position           *track.Channel[r3.Vec]             // 位置
	Scale              *track.Channel[r3.Vec]             // 缩放
	EulerRotation      *track.Channel[mgl64.Vec3]         // 欧拉角旋转（弧度）
	QuaternionRotation *track.Channel[quat.Number]        // 四元数旋转
	Scalars            map[string]*track.Channel[float64] // 其他标量通道
}

// Result 削减后的关键帧
type Result struct {
	Name               string
	Position           track.Keyframes[r3.Vec]
	Scale              track.Keyframes[r3.Vec]
	EulerRotation      track.Keyframes[mgl64.Vec3]
	QuaternionRotation track.Keyframes[quat.Number]
	Scalars            map[string]track.Keyframes[float64]
	Complementary      map[int][]mgl64.Vec3 // 欧拉角补间值,键为前一个关键帧
	RotationName       string               // 旋转通道的原始名称
}

// Optimizer 关键帧削减器
type Optimizer struct {
	Params config.Params                    // 削减参数
	Logger *zap.Logger                      // 日志,为空时不输出
	Trace  func(channel string) maths.Trace // 为每个通道创建跟踪,可以为空
}

// NewOptimizer 创建削减器
func NewOptimizer(params config.Params, logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{Params: params, Logger: logger}
}

// ToQuaternion 欧拉角通道逐帧转换为四元数通道
func ToQuaternion(c *track.Channel[mgl64.Vec3], zyx bool) *track.Channel[quat.Number] {
	values := make([]quat.Number, len(c.Values))
	for i, e := range c.Values {
		values[i] = maths.EulerToQuaternion(e, zyx)
	}
	return track.NewChannel(c.Name, c.Start, values...)
}

// Optimize 削减一个节点的全部通道
// @ 每个通道在独立的 goroutine 中削减,通道之间不共享任何数据.
func (o *Optimizer) Optimize(ctx context.Context, set *Set) (*Result, error) {
	if set == nil {
		return nil, fmt.Errorf("动画集合为空")
	}
	if err := o.Params.Validate(); err != nil {
		return nil, err
	}
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("set", set.Name))

	general := o.Params.GeneralOptimThreshold
	euler, quaternion := set.EulerRotation, set.QuaternionRotation
	quatThresholds := []float64{o.Params.QuaternionOptimThreshold}
	if euler != nil && quaternion != nil {
		return nil, fmt.Errorf("动画集合 %q 同时包含欧拉角与四元数旋转", set.Name)
	}
	if euler != nil && o.Params.RotationMode == types.RotationQuaternion {
		if err := euler.Check(); err != nil {
			return nil, err
		}
		// 转换产生的偏差先按转换阈值削减
		quaternion = ToQuaternion(euler, o.Params.RotateZYX)
		quatThresholds = []float64{o.Params.QuaternionThreshold, o.Params.QuaternionOptimThreshold}
		euler = nil
		logger.Debug("欧拉角转换为四元数", zap.Int("frames", quaternion.Len()), zap.Bool("zyx", o.Params.RotateZYX))
	}

	result := &Result{Name: set.Name}
	if euler != nil {
		result.RotationName = euler.Name
	} else if quaternion != nil {
		result.RotationName = quaternion.Name
	}
	g, ctx := errgroup.WithContext(ctx)
	if o.Params.Workers > 0 {
		g.SetLimit(o.Params.Workers)
	}
	if set.Position != nil {
		submit(ctx, g, o.trace(ChannelPosition), logger.With(zap.String("channel", ChannelPosition)),
			set.Position, maths.Vector3{}, &result.Position, general)
	}
	if euler != nil {
		submit(ctx, g, o.trace(ChannelRotation), logger.With(zap.String("channel", ChannelRotation)),
			euler, maths.Euler{}, &result.EulerRotation, general)
	}
	if quaternion != nil {
		submit(ctx, g, o.trace(ChannelQuaternion), logger.With(zap.String("channel", ChannelQuaternion)),
			quaternion, maths.Quaternion{}, &result.QuaternionRotation, quatThresholds...)
	}
	if set.Scale != nil {
		submit(ctx, g, o.trace(ChannelScale), logger.With(zap.String("channel", ChannelScale)),
			set.Scale, maths.Vector3{}, &result.Scale, general)
	}
	names := make([]string, 0, len(set.Scalars))
	for name := range set.Scalars {
		names = append(names, name)
	}
	slices.Sort(names)
	scalars := make([]track.Keyframes[float64], len(names))
	for i, name := range names {
		submit(ctx, g, o.trace(name), logger.With(zap.String("channel", name)),
			set.Scalars[name], maths.Scalar{}, &scalars[i], general)
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("削减动画集合 %q 失败: %w", set.Name, err)
	}

	if len(names) > 0 {
		result.Scalars = make(map[string]track.Keyframes[float64], len(names))
		for i, name := range names {
			result.Scalars[name] = scalars[i]
		}
	}
	if result.EulerRotation != nil {
		o.finishEuler(result)
	}
	return result, nil
}

// finishEuler 欧拉角补间与正角度折算
// @ 补间值按折算前的角度差计算.
func (o *Optimizer) finishEuler(result *Result) {
	k := result.EulerRotation
	for i := 1; i < len(k); i++ {
		c := maths.Complementary(k[i-1].Value, k[i].Value)
		if c == nil {
			continue
		}
		if result.Complementary == nil {
			result.Complementary = map[int][]mgl64.Vec3{}
		}
		result.Complementary[k[i-1].Frame] = c
	}
	if !o.Params.EnsurePositiveEulerAngles {
		return
	}
	result.EulerRotation = track.Map(k, maths.PositiveAngles)
	for frame, values := range result.Complementary {
		for i, v := range values {
			values[i] = maths.PositiveAngles(v)
		}
		result.Complementary[frame] = values
	}
}

// Bake 按插值偏差阈值烘焙宿主提供的曲线
func (o *Optimizer) Bake(curves []plan.Curve, start, end int, fallback float64) []plan.Sample {
	return plan.Bake(curves, start, end, o.Params.InterpolationThreshold, fallback)
}

// trace 创建通道跟踪
func (o *Optimizer) trace(channel string) maths.Trace {
	if o.Trace == nil {
		return nil
	}
	return o.Trace(channel)
}

// submit 提交一个通道的削减任务,结果写入 out
func submit[V any](ctx context.Context, g *errgroup.Group, trace maths.Trace, logger *zap.Logger,
	c *track.Channel[V], domain maths.Domain[V], out *track.Keyframes[V], thresholds ...float64) {
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		k, err := reduce(c, domain, trace, thresholds...)
		if err != nil {
			return err
		}
		logger.Debug("通道削减完成",
			zap.Int("start", c.Start),
			zap.Int("end", c.End()),
			zap.Int("before", c.Len()),
			zap.Int("after", len(k)),
			zap.Float64s("thresholds", thresholds))
		*out = k
		return nil
	})
}

// reduce 按阈值依次削减通道
func reduce[V any](c *track.Channel[V], domain maths.Domain[V], trace maths.Trace, thresholds ...float64) (track.Keyframes[V], error) {
	if err := c.Check(); err != nil {
		return nil, err
	}
	var stages *stageTrace
	if trace != nil {
		stages = &stageTrace{trace: trace}
	}
	frames := c.Frames()
	for _, threshold := range thresholds {
		r := maths.NewReducer(domain, threshold)
		if stages != nil {
			r.Trace = stages
		}
		frames = r.Reduce(frames, c)
		if stages != nil {
			stages.offset = stages.last
		}
	}
	return c.Pick(frames), nil
}

// stageTrace 多个阈值依次削减时,扫描轮次接着上一阶段连续编号
type stageTrace struct {
	trace  maths.Trace
	offset int // 之前阶段的扫描轮数
	last   int // 最近一轮的编号
}

func (s *stageTrace) Evaluate(pass, frame int, deviation float64, removed bool) {
	s.trace.Evaluate(s.offset+pass, frame, deviation, removed)
}

func (s *stageTrace) Pass(pass int, removed int) {
	s.last = s.offset + pass
	s.trace.Pass(s.last, removed)
}
