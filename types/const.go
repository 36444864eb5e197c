package types

// 默认参数常量定义
var (
	DefaultInterpolationThreshold   = 0.0  // 非线性段插值偏差阈值（0 表示逐帧导出）
	DefaultQuaternionThreshold      = 0.05 // 四元数与欧拉角互相转换时的偏差阈值
	DefaultGeneralOptimThreshold    = 0.0  // 位置、缩放、欧拉角、标量通道的优化阈值
	DefaultQuaternionOptimThreshold = 0.0  // 四元数通道的优化阈值
	DefaultWorkers                  = 0    // 并发处理通道数量（0 表示不限制）
)

// 旋转模式
const (
	RotationKeep       = "KEEP"       // 保持原始旋转类型
	RotationQuaternion = "QUATERNION" // 欧拉角转换为四元数
)
