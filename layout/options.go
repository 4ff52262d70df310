package layout

import "go.uber.org/zap"

// Metrics 返回文本在给定字体下的渲染宽度（mm）。
type Metrics interface {
	Measure(text string, font Font) (float64, error)
}

// Canvas 是引擎唯一的绘制出口。坐标单位为 mm，原点在页面左上角，y 为文本基线。
// 引擎不捕获这些方法返回的错误，原样交给调用方。
type Canvas interface {
	DrawText(text string, x, y float64) error
	DrawLine(x1, y1, x2, y2 float64) error
	NewPage() error
	SetFont(font Font) error
	SetTextColor(c Color) error
	SetStrokeColor(c Color) error
	PageSize() (width, height float64)
}

// FooterPlacement 控制时间戳页脚绘制在哪些页面上。
type FooterPlacement uint8

const (
	// FooterLastPage 只在渲染结束时的当前页（即最后一页）绘制。
	FooterLastPage FooterPlacement = iota
	// FooterEveryPage 在每一页换页前以及最后一页绘制。
	FooterEveryPage
)

// ParseFooterPlacement 解析配置中的取值：last / every。
func ParseFooterPlacement(v string) (FooterPlacement, bool) {
	switch v {
	case "", "last", "last-page":
		return FooterLastPage, true
	case "every", "every-page", "all":
		return FooterEveryPage, true
	default:
		return FooterLastPage, false
	}
}

const (
	DefaultMargin            = 20.0
	DefaultTitle             = "LLM Council - Final Answer"
	DefaultAttributionFormat = "${attribution}"
	DefaultFooterFormat      = "${timestamp}"
)

// Options 配置一次渲染。Canvas 与 Metrics 必填，其余字段为空时取默认值。
type Options struct {
	Canvas  Canvas
	Metrics Metrics

	// Margin 四边统一的页边距（mm）。
	Margin float64

	Title string
	// Attribution 是署名标识，例如 "org/model"，页眉中只显示第一个 "/" 之后的部分。
	Attribution       string
	AttributionFormat string

	// Timestamp 已格式化好的时间文本，格式化由调用方负责。
	Timestamp    string
	FooterFormat string
	Footer       FooterPlacement

	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.AttributionFormat == "" {
		o.AttributionFormat = DefaultAttributionFormat
	}
	if o.FooterFormat == "" {
		o.FooterFormat = DefaultFooterFormat
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
