package types

import (
	"fmt"
	"strings"
)

// Kind 通道值类型
type Kind int

// 通道值类型常量定义
const (
	KindUnknown    Kind = iota // 未知类型
	KindScalar                 // 标量
	KindVector3                // 三维向量
	KindQuaternion             // 四元数
	KindEuler                  // 欧拉角（XYZ,弧度）
)

// kindString 类型名称映射
var kindString = map[Kind]struct {
	Name  string
	Width int
}{
	KindUnknown:    {Name: "unknown", Width: 0},
	KindScalar:     {Name: "scalar", Width: 1},
	KindVector3:    {Name: "vector3", Width: 3},
	KindQuaternion: {Name: "quaternion", Width: 4},
	KindEuler:      {Name: "euler", Width: 3},
}

// String 返回类型名称
func (k Kind) String() string {
	if v, ok := kindString[k]; ok {
		return v.Name
	}
	return "unknown"
}

// Width 分量数量
func (k Kind) Width() int { return kindString[k].Width }

// ParseKind 通过名称获取类型
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, v := range kindString {
		if k != KindUnknown && v.Name == name {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("未知通道类型: %q", name)
}
