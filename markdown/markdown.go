// Package markdown 将 Markdown 文本转换为排版引擎使用的块序列。
//
// 行内结构被压平成单一样式的片段：嵌套样式按 Code > Link > Strong > Emphasis > Plain
// 的优先级取最强的一种；软换行与硬换行都变成一个空格。
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ByLCY/vellum/document"
)

// Parse 校验输入后解析为文档。无法识别的块保留为 RawText。
func Parse(src []byte) (document.Document, error) {
	if err := ValidateInput(src); err != nil {
		return document.Document{}, err
	}
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(src))

	c := &converter{src: src}
	var blocks []document.Block
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if b := c.block(n); b != nil {
			blocks = append(blocks, b)
		}
	}
	return document.Document{Blocks: blocks}, nil
}

type converter struct {
	src []byte
}

func (c *converter) block(n ast.Node) document.Block {
	switch nd := n.(type) {
	case *ast.Heading:
		return document.Heading{Depth: nd.Level, Spans: c.inline(nd)}
	case *ast.Paragraph, *ast.TextBlock:
		return document.Paragraph{Spans: c.inline(nd)}
	case *ast.List:
		l := document.List{Ordered: nd.IsOrdered()}
		for item := nd.FirstChild(); item != nil; item = item.NextSibling() {
			l.Items = append(l.Items, c.container(item, " "))
		}
		return l
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return document.CodeBlock{Lines: c.lines(nd)}
	case *ast.Blockquote:
		return document.BlockQuote{Spans: c.container(nd, "\n")}
	case *ast.ThematicBreak:
		return document.Rule{}
	case *ast.HTMLBlock:
		raw := c.lines(nd)
		if nd.HasClosure() {
			raw = append(raw, trimEOL(string(nd.ClosureLine.Value(c.src))))
		}
		return document.RawText{Text: strings.Join(raw, "\n")}
	case *extast.Table:
		return document.RawText{Text: c.table(nd)}
	default:
		return document.RawText{Text: c.plain(nd)}
	}
}

// container 压平列表项或引用块中的子块，子块之间以 sep 连接。
func (c *converter) container(n ast.Node, sep string) []document.Span {
	var spans []document.Span
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		var part []document.Span
		switch ch := child.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			part = c.inline(ch)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if lines := c.lines(ch); len(lines) > 0 {
				part = []document.Span{{Kind: document.Code, Text: strings.Join(lines, " ")}}
			}
		case *ast.List:
			for item := ch.FirstChild(); item != nil; item = item.NextSibling() {
				if len(part) > 0 {
					part = append(part, document.Text(sep))
				}
				part = append(part, c.container(item, sep)...)
			}
		default:
			if t := c.plain(ch); t != "" {
				part = []document.Span{document.Text(t)}
			}
		}
		if len(part) == 0 {
			continue
		}
		if len(spans) > 0 {
			spans = append(spans, document.Text(sep))
		}
		spans = append(spans, part...)
	}
	return merge(spans)
}

// rank 越大样式越强，嵌套时保留最强者。
func rank(k document.SpanKind) int {
	switch k {
	case document.Code:
		return 4
	case document.Link:
		return 3
	case document.Strong:
		return 2
	case document.Emphasis:
		return 1
	default:
		return 0
	}
}

func dominant(outer, inner document.SpanKind) document.SpanKind {
	if rank(inner) > rank(outer) {
		return inner
	}
	return outer
}

func (c *converter) inline(n ast.Node) []document.Span {
	var spans []document.Span
	c.collect(n, document.Plain, "", &spans)
	return merge(spans)
}

func (c *converter) collect(n ast.Node, kind document.SpanKind, url string, out *[]document.Span) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch ch := child.(type) {
		case *ast.Text:
			c.emit(out, kind, string(ch.Segment.Value(c.src)), url)
			if ch.SoftLineBreak() || ch.HardLineBreak() {
				c.emit(out, kind, " ", url)
			}
		case *ast.String:
			c.emit(out, kind, string(ch.Value), url)
		case *ast.Emphasis:
			next := document.Emphasis
			if ch.Level >= 2 {
				next = document.Strong
			}
			c.collect(ch, dominant(kind, next), url, out)
		case *ast.CodeSpan:
			c.emit(out, document.Code, c.plain(ch), "")
		case *ast.Link:
			k := dominant(kind, document.Link)
			before := len(*out)
			linkURL := url
			if k == document.Link {
				linkURL = string(ch.Destination)
			}
			c.collect(ch, k, linkURL, out)
			if len(*out) == before && k == document.Link {
				*out = append(*out, document.Span{Kind: document.Link, URL: linkURL})
			}
		case *ast.AutoLink:
			k := dominant(kind, document.Link)
			label := string(ch.Label(c.src))
			if k == document.Link {
				*out = append(*out, document.Span{Kind: k, Text: label, URL: string(ch.URL(c.src))})
			} else {
				c.emit(out, k, label, "")
			}
		case *ast.Image:
			*out = append(*out, document.Span{Kind: document.Unknown, Text: c.plain(ch)})
		case *ast.RawHTML:
			var b strings.Builder
			for i := 0; i < ch.Segments.Len(); i++ {
				seg := ch.Segments.At(i)
				b.Write(seg.Value(c.src))
			}
			*out = append(*out, document.Span{Kind: document.Unknown, Text: b.String()})
		case *extast.TaskCheckBox:
			mark := "[ ] "
			if ch.IsChecked {
				mark = "[x] "
			}
			c.emit(out, kind, mark, url)
		default:
			c.collect(ch, kind, url, out)
		}
	}
}

func (c *converter) emit(out *[]document.Span, kind document.SpanKind, s, url string) {
	if s == "" {
		return
	}
	*out = append(*out, document.Span{Kind: kind, Text: s, URL: url})
}

// merge 合并相邻的同类片段。
func merge(spans []document.Span) []document.Span {
	var out []document.Span
	for _, sp := range spans {
		if n := len(out); n > 0 && sp.Kind != document.Unknown && out[n-1].Kind == sp.Kind && out[n-1].URL == sp.URL && out[n-1].Text != "" {
			out[n-1].Text += sp.Text
			continue
		}
		out = append(out, sp)
	}
	return out
}

// plain 取节点下全部文本，换行折叠为空格。
func (c *converter) plain(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch nd := node.(type) {
		case *ast.Text:
			b.Write(nd.Segment.Value(c.src))
			if nd.SoftLineBreak() || nd.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(nd.Value)
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			b.WriteString(strings.Join(c.lines(nd), " "))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func (c *converter) lines(n ast.Node) []string {
	segs := n.Lines()
	out := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		out = append(out, trimEOL(string(seg.Value(c.src))))
	}
	return out
}

func (c *converter) table(t *extast.Table) string {
	var rows []string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, c.plain(cell))
		}
		rows = append(rows, strings.Join(cells, " | "))
	}
	return strings.Join(rows, "\n")
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
