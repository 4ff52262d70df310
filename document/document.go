// Package document 定义排版引擎消费的文档模型：有序的块序列，每个块携带单一样式的行内片段。
package document

import "strings"

// Document 是一次渲染的输入，渲染期间不可修改。
type Document struct {
	Blocks []Block `json:"blocks"`
}

// Block 是文档顶层结构单元。实现集合是封闭的，外部包无法新增变体。
type Block interface {
	block()
}

// Heading 标题，Depth 取值 1..6。
type Heading struct {
	Depth int    `json:"depth"`
	Spans []Span `json:"spans"`
}

// Paragraph 段落。Spans 为空时按 Text 作为纯文本折行。
type Paragraph struct {
	Spans []Span `json:"spans"`
	Text  string `json:"text,omitempty"`
}

// List 列表，每个条目是已扁平化的行内片段序列。
type List struct {
	Ordered bool     `json:"ordered"`
	Items   [][]Span `json:"items"`
}

// CodeBlock 代码块，按行保存原文，不参与折行。
type CodeBlock struct {
	Lines []string `json:"lines"`
}

// BlockQuote 引用块，内容按扁平文本以斜体渲染。
type BlockQuote struct {
	Spans []Span `json:"spans"`
	Text  string `json:"text,omitempty"`
}

// Rule 水平分隔线。
type Rule struct{}

// RawText 未识别块的兜底表示。
type RawText struct {
	Text string `json:"text"`
}

func (Heading) block()    {}
func (Paragraph) block()  {}
func (List) block()       {}
func (CodeBlock) block()  {}
func (BlockQuote) block() {}
func (Rule) block()       {}
func (RawText) block()    {}

// SpanKind 行内片段的样式种类。
type SpanKind uint8

const (
	Plain SpanKind = iota
	Strong
	Emphasis
	Code
	Link
	// Unknown 表示解析器无法归类的行内节点，渲染时按 Plain 处理其原文。
	Unknown
)

// String returns the lower-case name of the kind.
func (k SpanKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Strong:
		return "strong"
	case Emphasis:
		return "emphasis"
	case Code:
		return "code"
	case Link:
		return "link"
	default:
		return "unknown"
	}
}

// Span 是单一样式的行内文本。片段之间不嵌套。
type Span struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
	URL  string   `json:"url,omitempty"`
}

// Literal 返回片段实际绘制的文本：链接文本为空时退回 URL。
func (s Span) Literal() string {
	if s.Kind == Link && s.Text == "" {
		return s.URL
	}
	return s.Text
}

// FlattenText 拼接片段的文本，用于仅支持纯文本的块（标题、列表项、引用）。
func FlattenText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Literal())
	}
	return b.String()
}

// Text 便捷构造 Plain 片段。
func Text(s string) Span { return Span{Kind: Plain, Text: s} }
