package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"keyframe"
	"keyframe/config"
	"keyframe/debug"
	"keyframe/load"
	"keyframe/maths"
)

var (
	configPath          string
	verbose             bool
	threshold           float64
	quaternionThreshold float64
	rotationMode        string
	outPath             string
	tracePath           string
	chartPath           string
	plotDir             string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "keyframe",
	Short: "关键帧偏差削减工具",
	Long: `keyframe 读取逐帧采样表,删除可以由相邻关键帧线性插值得到的帧.

采样表格式:
  .channel position vector3
  0 0.0 1.0 2.0
  1 0.1 1.0 2.0`,
	SilenceUsage: true,
}

var reduceCmd = &cobra.Command{
	Use:   "reduce <file>",
	Short: "削减采样表中的全部通道",
	Args:  cobra.ExactArgs(1),
	RunE:  runReduce,
}

var configCmd = &cobra.Command{
	Use:   "config <file>",
	Short: "写出默认配置文件",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.Default().Save(args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "keyframe.yaml", "配置文件")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	reduceCmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "通用优化阈值")
	reduceCmd.Flags().Float64Var(&quaternionThreshold, "quaternion-threshold", 0, "四元数优化阈值")
	reduceCmd.Flags().StringVar(&rotationMode, "rotation-mode", "", "旋转模式 KEEP / QUATERNION")
	reduceCmd.Flags().StringVarP(&outPath, "out", "o", "", "输出文件,默认输出到标准输出")
	reduceCmd.Flags().StringVar(&tracePath, "trace", "", "削减过程 JSON 输出文件")
	reduceCmd.Flags().StringVar(&chartPath, "chart", "", "削减对比 HTML 图表文件")
	reduceCmd.Flags().StringVar(&plotDir, "plot", "", "每个通道的 PNG 图片目录")

	rootCmd.AddCommand(reduceCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// params 读取配置并应用命令行参数
func params(cmd *cobra.Command) (config.Params, error) {
	p, err := config.Load(configPath)
	if err != nil {
		return p, err
	}
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		p.GeneralOptimThreshold = threshold
	}
	if flags.Changed("quaternion-threshold") {
		p.QuaternionOptimThreshold = quaternionThreshold
	}
	if flags.Changed("rotation-mode") {
		p.RotationMode = strings.ToUpper(rotationMode)
	}
	return p, p.Validate()
}

func runReduce(cmd *cobra.Command, args []string) error {
	p, err := params(cmd)
	if err != nil {
		return err
	}
	if logger, err = p.Logging.Logger(verbose); err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sheet, err := load.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("加载采样表失败: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	set, err := keyframe.FromSheet(name, sheet)
	if err != nil {
		return err
	}

	records := map[string]*debug.Record{}
	optimizer := keyframe.NewOptimizer(p, logger)
	if tracePath != "" || chartPath != "" || plotDir != "" {
		optimizer.Trace = func(channel string) maths.Trace {
			r := debug.NewRecord(channel)
			records[channel] = r
			return r
		}
	}
	logger.Info("开始削减", zap.String("file", args[0]), zap.Int("channels", len(sheet.Blocks)))
	result, err := optimizer.Optimize(ctx, set)
	if err != nil {
		return err
	}

	if err := export(result.Sheet()); err != nil {
		return err
	}
	if len(records) > 0 {
		capture(records, set, result, p)
		if err := writeDebug(records); err != nil {
			return err
		}
	}
	logger.Info("削减完成", zap.String("set", result.Name), zap.Int("complementary", len(result.Complementary)))
	return nil
}

// export 输出削减结果
func export(sheet *load.Sheet) error {
	if outPath == "" {
		return sheet.Export(os.Stdout)
	}
	if err := sheet.ExportFile(outPath); err != nil {
		return fmt.Errorf("写入结果失败: %w", err)
	}
	return nil
}

// capture 把采样与结果写入调试记录
func capture(records map[string]*debug.Record, set *keyframe.Set, result *keyframe.Result, p config.Params) {
	if r, ok := records[keyframe.ChannelPosition]; ok {
		debug.Capture(r, set.Position, result.Position, maths.Vector3{})
	}
	if r, ok := records[keyframe.ChannelScale]; ok {
		debug.Capture(r, set.Scale, result.Scale, maths.Vector3{})
	}
	if r, ok := records[keyframe.ChannelRotation]; ok {
		debug.Capture(r, set.EulerRotation, result.EulerRotation, maths.Euler{})
	}
	if r, ok := records[keyframe.ChannelQuaternion]; ok {
		q := set.QuaternionRotation
		if q == nil {
			q = keyframe.ToQuaternion(set.EulerRotation, p.RotateZYX)
		}
		debug.Capture(r, q, result.QuaternionRotation, maths.Quaternion{})
	}
	for name, c := range set.Scalars {
		if r, ok := records[name]; ok {
			debug.Capture(r, c, result.Scalars[name], maths.Scalar{})
		}
	}
}

// writeDebug 输出调试文件
func writeDebug(records map[string]*debug.Record) error {
	list := make([]*debug.Record, 0, len(records))
	for _, name := range []string{keyframe.ChannelPosition, keyframe.ChannelRotation, keyframe.ChannelQuaternion, keyframe.ChannelScale} {
		if r, ok := records[name]; ok {
			list = append(list, r)
			delete(records, name)
		}
	}
	for _, r := range records {
		list = append(list, r)
	}
	if tracePath != "" {
		file, err := os.Create(tracePath)
		if err != nil {
			return err
		}
		defer file.Close()
		for _, r := range list {
			if err := r.Render(file); err != nil {
				return err
			}
		}
	}
	if chartPath != "" {
		file, err := os.Create(chartPath)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := (&debug.Charts{Title: "关键帧削减", Records: list}).Render(file); err != nil {
			return err
		}
	}
	if plotDir != "" {
		if err := os.MkdirAll(plotDir, 0755); err != nil {
			return err
		}
		for _, r := range list {
			if err := debug.SavePlot(filepath.Join(plotDir, r.Channel+".png"), r); err != nil {
				return err
			}
			logger.Debug("输出图片", zap.String("channel", r.Channel))
		}
	}
	return nil
}
