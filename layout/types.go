package layout

// 该文件定义布局结果，供 Recorder 收集、渲染器绘制与调试 JSON 共用。

// Result 保存布局后的页面与文档元信息。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Page 记录页面尺寸与已定位、可直接渲染的元素（单位：mm）。
type Page struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Texts  []TextBox `json:"texts"`
	Lines  []Line    `json:"lines,omitempty"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// 常用颜色，取自导出流程中代码、页脚与分隔线的配色。
var (
	Black       = Color{0, 0, 0}
	CodeSpan    = Color{100, 100, 100}
	CodeBlockFg = Color{50, 50, 50}
	FooterGray  = Color{150, 150, 150}
	RuleGray    = Color{200, 200, 200}
	Separator   = Color{200, 230, 200}
)

// TextBox 表示一段已经排好坐标的单行文本，Y 为基线位置。
type TextBox struct {
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Font    Font    `json:"font"`
	Color   Color   `json:"color"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Creator string `json:"creator"`
}
