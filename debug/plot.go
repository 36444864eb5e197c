package debug

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// 图片尺寸
var (
	PlotWidth  = 8 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

// Plot 绘制单个通道的静态图片
// @ 实线为逐帧采样,圆点为保留的关键帧.
func Plot(r *Record) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = r.Channel
	p.X.Label.Text = "帧"
	p.Y.Label.Text = "值"
	for i := 0; i < r.Width(); i++ {
		dense := make(plotter.XYs, len(r.Frames))
		for x, f := range r.Frames {
			dense[x].X = float64(f)
			dense[x].Y = r.Dense[x][i]
		}
		line, err := plotter.NewLine(dense)
		if err != nil {
			return nil, fmt.Errorf("绘制采样曲线失败: %w", err)
		}
		line.Color = plotutil.Color(i)
		retained := make(plotter.XYs, len(r.Retained))
		for x, f := range r.Retained {
			retained[x].X = float64(f)
			retained[x].Y = r.Values[x][i]
		}
		scatter, err := plotter.NewScatter(retained)
		if err != nil {
			return nil, fmt.Errorf("绘制关键帧失败: %w", err)
		}
		scatter.Color = plotutil.Color(i)
		scatter.Radius = vg.Points(2.5)
		p.Add(line, scatter)
		p.Legend.Add(fmt.Sprintf("[%d]", i), line, scatter)
	}
	return p, nil
}

// WritePlot 按格式（png, svg, pdf）输出图片
func WritePlot(w io.Writer, r *Record, format string) error {
	p, err := Plot(r)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(PlotWidth, PlotHeight, format)
	if err != nil {
		return fmt.Errorf("创建 %s 图片失败: %w", format, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePlot 保存图片,格式由文件扩展名决定
func SavePlot(filename string, r *Record) error {
	p, err := Plot(r)
	if err != nil {
		return err
	}
	return p.Save(PlotWidth, PlotHeight, filename)
}
