package utils

import "math/bits"

// Bitmap 位图标记实现
// @ 削减过程中用来标记仍然保留的帧,按输入位置索引.
type Bitmap interface {
	Set(bit int, flag bool)     // 设置标记
	Get(bit int) (flag bool)    // 获取标记
	Size() int                  // 位图大小
	Count() int                 // 已标记数量
	Each(fn func(bit int) bool) // 按顺序遍历已标记位置,返回假时停止
}

// bitmapImpl 实现Bitmap接口
type bitmapImpl struct {
	bits   []uint64
	length int
}

// NewBitmap 创建新的位图实例,fill 为真时所有位置初始为已标记
func NewBitmap(size int, fill bool) Bitmap {
	b := &bitmapImpl{
		bits:   make([]uint64, (size+63)/64), // 计算需要的uint64数量
		length: size,
	}
	if fill {
		for i := range b.bits {
			b.bits[i] = ^uint64(0)
		}
		// 清除末尾多余的位
		if r := size % 64; r != 0 {
			b.bits[len(b.bits)-1] = (1 << uint(r)) - 1
		}
	}
	return b
}

func (b *bitmapImpl) Set(bit int, flag bool) {
	if bit < 0 || bit >= b.length {
		panic("bitmap index out of range")
	}
	if flag {
		b.bits[bit/64] |= 1 << uint(bit%64)
	} else {
		b.bits[bit/64] &^= 1 << uint(bit%64)
	}
}

func (b *bitmapImpl) Get(bit int) bool {
	if bit < 0 || bit >= b.length {
		return false
	}
	return b.bits[bit/64]&(1<<uint(bit%64)) != 0
}

func (b *bitmapImpl) Size() int { return b.length }

func (b *bitmapImpl) Count() int {
	count := 0
	for _, w := range b.bits {
		count += bits.OnesCount64(w)
	}
	return count
}

func (b *bitmapImpl) Each(fn func(bit int) bool) {
	for i, w := range b.bits {
		for w != 0 {
			offset := bits.TrailingZeros64(w)
			if !fn(i*64 + offset) {
				return
			}
			w &= w - 1
		}
	}
}
