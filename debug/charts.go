package debug

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 曲线绘制
type Charts struct {
	Title   string    // 页面标题
	Records []*Record // 每个通道一条记录
}

// legend 图例位置
var legend = opts.Legend{
	Type:   "scroll",
	Orient: "vertical",
	Right:  "10",
	Top:    "20",
	Bottom: "20",
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	page := components.NewPage()
	if c.Title != "" {
		page.PageTitle = c.Title
	}
	for _, r := range c.Records {
		if r.Width() > 0 {
			page.AddCharts(c.curve(r))
		}
	}
	page.AddCharts(c.passes())
	return page.Render(w)
}

// curve 逐帧采样与保留关键帧对比
func (c *Charts) curve(r *Record) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    r.Channel,
			Subtitle: fmt.Sprintf("采样 %d 帧，保留 %d 帧，扫描 %d 轮", len(r.Frames), len(r.Retained), r.Passes()),
		}),
		charts.WithLegendOpts(legend),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "帧",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(true),
	)
	for i := 0; i < r.Width(); i++ {
		dense := make([]opts.LineData, len(r.Frames))
		for x, f := range r.Frames {
			dense[x] = opts.LineData{Value: []any{f, r.Dense[x][i]}}
		}
		retained := make([]opts.LineData, len(r.Retained))
		for x, f := range r.Retained {
			retained[x] = opts.LineData{Value: []any{f, r.Values[x][i]}}
		}
		line.AddSeries(fmt.Sprintf("采样[%d]", i), dense)
		line.AddSeries(fmt.Sprintf("关键帧[%d]", i), retained)
	}
	return line
}

// passes 每轮删除的帧数
func (c *Charts) passes() *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "削减轮次",
			Subtitle: "每轮扫描删除的帧数",
		}),
		charts.WithLegendOpts(legend),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	n := 0
	for _, r := range c.Records {
		n = max(n, r.Passes())
	}
	axis := make([]string, n)
	for i := range axis {
		axis[i] = fmt.Sprintf("第 %d 轮", i+1)
	}
	bar.SetXAxis(axis)
	for _, r := range c.Records {
		items := make([]opts.BarData, n)
		for i, removed := range r.Removed {
			items[i] = opts.BarData{Value: removed}
		}
		bar.AddSeries(r.Channel, items)
	}
	return bar
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		c.Error(err)
	}
}

func (c *Charts) Error(err error) { log.Println(err) }
