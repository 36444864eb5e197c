package keyframe

import (
	"fmt"
	"slices"

	"keyframe/load"
	"keyframe/maths"
	"keyframe/track"
	"keyframe/types"
)

// reserved 标量通道不能使用的名称
var reserved = []string{ChannelPosition, ChannelRotation, ChannelScale, ChannelQuaternion}

// FromSheet 从采样表创建动画集合
// @ vector3 通道只接受 position 与 scale 两个名称,旋转通道名称任意并在导出时保留.
// @ 标量通道不能使用 reserved 中的名称.
func FromSheet(name string, sheet *load.Sheet) (*Set, error) {
	set := &Set{Name: name}
	for _, b := range sheet.Blocks {
		if !b.Contiguous() {
			return nil, fmt.Errorf("第 %d 行: 通道 %q 的帧号不连续", b.Line, b.Name)
		}
		var err error
		switch b.Kind {
		case types.KindVector3:
			switch b.Name {
			case ChannelPosition:
				err = assign(&set.Position, b, maths.Vector3{})
			case ChannelScale:
				err = assign(&set.Scale, b, maths.Vector3{})
			default:
				err = fmt.Errorf("第 %d 行: 三维向量通道只能命名为 %s 或 %s", b.Line, ChannelPosition, ChannelScale)
			}
		case types.KindEuler:
			err = assign(&set.EulerRotation, b, maths.Euler{})
		case types.KindQuaternion:
			err = assign(&set.QuaternionRotation, b, maths.Quaternion{})
		case types.KindScalar:
			if slices.Contains(reserved, b.Name) {
				err = fmt.Errorf("第 %d 行: 标量通道不能命名为 %q", b.Line, b.Name)
				break
			}
			var c *track.Channel[float64]
			if c, err = channelOf[float64](b, maths.Scalar{}); err == nil {
				if set.Scalars == nil {
					set.Scalars = map[string]*track.Channel[float64]{}
				}
				set.Scalars[b.Name] = c
			}
		default:
			err = fmt.Errorf("第 %d 行: 不支持的通道类型 %s", b.Line, b.Kind)
		}
		if err != nil {
			return nil, err
		}
	}
	if set.EulerRotation != nil && set.QuaternionRotation != nil {
		return nil, fmt.Errorf("采样表同时包含欧拉角与四元数旋转")
	}
	return set, nil
}

// assign 转换采样块并写入目标通道,目标已存在时报错
func assign[V any](dst **track.Channel[V], b *load.Block, codec maths.Codec[V]) error {
	if *dst != nil {
		return fmt.Errorf("第 %d 行: 通道 %q 与 %q 重复", b.Line, b.Name, (*dst).Name)
	}
	c, err := channelOf(b, codec)
	if err != nil {
		return err
	}
	*dst = c
	return nil
}

// channelOf 采样块转换为通道
func channelOf[V any](b *load.Block, codec maths.Codec[V]) (*track.Channel[V], error) {
	if len(b.Frames) == 0 {
		return nil, fmt.Errorf("第 %d 行: 通道 %q 没有采样", b.Line, b.Name)
	}
	c := track.NewChannel[V](b.Name, b.Frames[0])
	for i, row := range b.Rows {
		v, err := codec.FromComponents(row)
		if err != nil {
			return nil, fmt.Errorf("通道 %q 第 %d 帧: %w", b.Name, b.Frames[i], err)
		}
		c.Append(v)
	}
	return c, nil
}

// blockOf 关键帧转换为采样块
func blockOf[V any](name string, kind types.Kind, k track.Keyframes[V], codec maths.Codec[V]) *load.Block {
	b := &load.Block{Name: name, Kind: kind, Frames: k.Frames(), Rows: make([][]float64, len(k))}
	for i, kf := range k {
		b.Rows[i] = codec.Components(kf.Value)
	}
	return b
}

// rotationName 旋转通道名称,没有原始名称时使用默认名称
func (r *Result) rotationName(fallback string) string {
	if r.RotationName != "" {
		return r.RotationName
	}
	return fallback
}

// Sheet 削减结果转换为采样表
// @ 补间值不写入采样表.
func (r *Result) Sheet() *load.Sheet {
	sheet := &load.Sheet{}
	if r.Position != nil {
		sheet.Blocks = append(sheet.Blocks, blockOf(ChannelPosition, types.KindVector3, r.Position, maths.Vector3{}))
	}
	if r.EulerRotation != nil {
		sheet.Blocks = append(sheet.Blocks, blockOf(r.rotationName(ChannelRotation), types.KindEuler, r.EulerRotation, maths.Euler{}))
	}
	if r.QuaternionRotation != nil {
		sheet.Blocks = append(sheet.Blocks, blockOf(r.rotationName(ChannelQuaternion), types.KindQuaternion, r.QuaternionRotation, maths.Quaternion{}))
	}
	if r.Scale != nil {
		sheet.Blocks = append(sheet.Blocks, blockOf(ChannelScale, types.KindVector3, r.Scale, maths.Vector3{}))
	}
	names := make([]string, 0, len(r.Scalars))
	for name := range r.Scalars {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		sheet.Blocks = append(sheet.Blocks, blockOf(name, types.KindScalar, r.Scalars[name], maths.Scalar{}))
	}
	return sheet
}
