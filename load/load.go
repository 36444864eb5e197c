// Package load 读写逐帧采样的文本表.
//
// 文件按行组织:
//
//	# 注释,// 也作为注释,两者都可以放在行尾
//	.channel position vector3
//	0 0.0 1.0 2.0
//	1 0.1 1.0 2.0
//
// .channel 指令开始一个新通道,之后每行是帧号加上各分量的值.
package load

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"keyframe/types"
)

// 常量定义 - 文本表中的关键字和符号
const (
	tokenChannel     = ".channel" // 通道定义指令
	tokenCommentHash = "#"        // # 注释
	tokenCommentLine = "//"       // // 行注释
)

// Block 单个通道的采样表
type Block struct {
	Name   string      // 通道名称
	Kind   types.Kind  // 值类型
	Frames []int       // 帧号,严格递增
	Rows   [][]float64 // 每帧的分量
	Line   int         // 定义所在行号
}

// Contiguous 判断帧号是否连续
func (b *Block) Contiguous() bool {
	for i := 1; i < len(b.Frames); i++ {
		if b.Frames[i] != b.Frames[i-1]+1 {
			return false
		}
	}
	return true
}

// Sheet 采样表
type Sheet struct {
	Blocks []*Block
}

// Find 按名称查找通道
func (s *Sheet) Find(name string) *Block {
	for _, b := range s.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// LoadFile 加载采样表文件
func LoadFile(filename string) (*Sheet, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Load(file)
}

// Load 加载采样表
func Load(r io.Reader) (*Sheet, error) {
	sheet := &Sheet{}
	var block *Block
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, tokenCommentHash) || strings.HasPrefix(text, tokenCommentLine) {
			continue
		}
		// 去掉行尾注释
		for _, token := range []string{tokenCommentHash, tokenCommentLine} {
			if i := strings.Index(text, token); i >= 0 {
				text = strings.TrimSpace(text[:i])
			}
		}
		fields := strings.Fields(text)
		// 解析指令
		if fields[0][0] == '.' {
			if fields[0] != tokenChannel {
				return nil, fmt.Errorf("第 %d 行: 未知指令 %q", line, fields[0])
			}
			if len(fields) != 3 {
				return nil, fmt.Errorf("第 %d 行: 通道定义格式为 .channel <名称> <类型>", line)
			}
			kind, err := types.ParseKind(fields[2])
			if err != nil {
				return nil, fmt.Errorf("第 %d 行: %w", line, err)
			}
			if sheet.Find(fields[1]) != nil {
				return nil, fmt.Errorf("第 %d 行: 通道 %q 重复定义", line, fields[1])
			}
			block = &Block{Name: fields[1], Kind: kind, Line: line}
			sheet.Blocks = append(sheet.Blocks, block)
			continue
		}
		if block == nil {
			return nil, fmt.Errorf("第 %d 行: 采样数据之前缺少 .channel 定义", line)
		}
		// 处理采样行
		if len(fields) != block.Kind.Width()+1 {
			return nil, fmt.Errorf("第 %d 行: 通道 %q 需要帧号加 %d 个分量，得到 %d 列", line, block.Name, block.Kind.Width(), len(fields))
		}
		frame, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: 帧号无效 %q", line, fields[0])
		}
		if n := len(block.Frames); n > 0 && frame <= block.Frames[n-1] {
			return nil, fmt.Errorf("第 %d 行: 帧号 %d 必须大于上一帧 %d", line, frame, block.Frames[n-1])
		}
		row := make([]float64, 0, len(fields)-1)
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("第 %d 行: 数值无效 %q", line, f)
			}
			row = append(row, v)
		}
		block.Frames = append(block.Frames, frame)
		block.Rows = append(block.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sheet, nil
}

// ExportFile 导出采样表文件
func (s *Sheet) ExportFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.Export(file)
}

// Export 导出采样表
func (s *Sheet) Export(w io.Writer) error {
	writer := bufio.NewWriter(w)
	for i, b := range s.Blocks {
		if i > 0 {
			writer.WriteRune('\n')
		}
		fmt.Fprintf(writer, "%s %s %s\n", tokenChannel, b.Name, b.Kind)
		for j, frame := range b.Frames {
			writer.WriteString(strconv.Itoa(frame))
			for _, v := range b.Rows[j] {
				writer.WriteRune(' ')
				writer.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			}
			writer.WriteRune('\n')
		}
	}
	return writer.Flush()
}
