package markdown

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/vellum/document"
)

func parse(t *testing.T, src string) []document.Block {
	t.Helper()
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	return doc.Blocks
}

func TestParseInlineStyles(t *testing.T) {
	blocks := parse(t, "# Title\n\nHello **bold** and *it* `code` [link](http://x).\n")
	require.Len(t, blocks, 2)

	assert.Equal(t, document.Heading{Depth: 1, Spans: []document.Span{document.Text("Title")}}, blocks[0])

	p, ok := blocks[1].(document.Paragraph)
	require.True(t, ok)
	assert.Equal(t, []document.Span{
		document.Text("Hello "),
		{Kind: document.Strong, Text: "bold"},
		document.Text(" and "),
		{Kind: document.Emphasis, Text: "it"},
		document.Text(" "),
		{Kind: document.Code, Text: "code"},
		document.Text(" "),
		{Kind: document.Link, Text: "link", URL: "http://x"},
		document.Text("."),
	}, p.Spans)
}

func TestParseDominantStyle(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []document.Span
	}{
		{
			name: "strong wins over emphasis",
			src:  "***both***",
			want: []document.Span{{Kind: document.Strong, Text: "both"}},
		},
		{
			name: "code wins inside strong",
			src:  "**bold `c`**",
			want: []document.Span{{Kind: document.Strong, Text: "bold "}, {Kind: document.Code, Text: "c"}},
		},
		{
			name: "link wins over strong",
			src:  "[**x**](u)",
			want: []document.Span{{Kind: document.Link, Text: "x", URL: "u"}},
		},
		{
			name: "soft break becomes space",
			src:  "a\nb",
			want: []document.Span{document.Text("a b")},
		},
		{
			name: "empty link keeps url",
			src:  "[](http://u)",
			want: []document.Span{{Kind: document.Link, URL: "http://u"}},
		},
		{
			name: "autolink",
			src:  "<https://example.com>",
			want: []document.Span{{Kind: document.Link, Text: "https://example.com", URL: "https://example.com"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := parse(t, tt.src)
			require.Len(t, blocks, 1)
			p, ok := blocks[0].(document.Paragraph)
			require.True(t, ok)
			assert.Equal(t, tt.want, p.Spans)
		})
	}
}

func TestParseEmptyLinkLiteralFallsBackToURL(t *testing.T) {
	blocks := parse(t, "[](http://u)")
	p := blocks[0].(document.Paragraph)
	assert.Equal(t, "http://u", document.FlattenText(p.Spans))
}

func TestParseLists(t *testing.T) {
	blocks := parse(t, "- one\n- two **b**\n\n1. a\n2. b\n")
	require.Len(t, blocks, 2)

	ul, ok := blocks[0].(document.List)
	require.True(t, ok)
	assert.False(t, ul.Ordered)
	require.Len(t, ul.Items, 2)
	assert.Equal(t, "one", document.FlattenText(ul.Items[0]))
	assert.Equal(t, "two b", document.FlattenText(ul.Items[1]))

	ol, ok := blocks[1].(document.List)
	require.True(t, ok)
	assert.True(t, ol.Ordered)
	assert.Len(t, ol.Items, 2)
}

func TestParseNestedListIsFlattened(t *testing.T) {
	blocks := parse(t, "- parent\n  - child\n")
	require.Len(t, blocks, 1)
	l := blocks[0].(document.List)
	require.Len(t, l.Items, 1)
	assert.Equal(t, "parent child", document.FlattenText(l.Items[0]))
}

func TestParseCodeBlockKeepsBlankLines(t *testing.T) {
	blocks := parse(t, "```go\nfoo\n\nbar\n```\n")
	require.Len(t, blocks, 1)
	assert.Equal(t, document.CodeBlock{Lines: []string{"foo", "", "bar"}}, blocks[0])
}

func TestParseQuoteRuleAndRaw(t *testing.T) {
	blocks := parse(t, "> quoted text\n\n---\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.Len(t, blocks, 3)

	q, ok := blocks[0].(document.BlockQuote)
	require.True(t, ok)
	assert.Equal(t, "quoted text", document.FlattenText(q.Spans))

	assert.Equal(t, document.Rule{}, blocks[1])

	raw, ok := blocks[2].(document.RawText)
	require.True(t, ok)
	assert.Equal(t, "a | b\n1 | 2", raw.Text)
}

func TestParseHTMLBlockIsRaw(t *testing.T) {
	blocks := parse(t, "<div>\nhi\n</div>\n")
	require.Len(t, blocks, 1)
	raw, ok := blocks[0].(document.RawText)
	require.True(t, ok)
	assert.Contains(t, raw.Text, "<div>")
}

func TestParseRejectsInvalidInput(t *testing.T) {
	_, err := Parse([]byte{0xff, 0xfe, 0xfd})
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = Parse(append([]byte("hello"), 0x00))
	assert.ErrorIs(t, err, ErrBinaryInput)
}

func TestValidateInput(t *testing.T) {
	assert.NoError(t, ValidateInput([]byte("# ok\n\ttabbed\r\n")))
	assert.NoError(t, ValidateInput(nil))

	noisy := append(bytes.Repeat([]byte("a"), 90), bytes.Repeat([]byte{0x01}, 10)...)
	assert.Equal(t, ErrBinaryInput, ValidateInput(noisy))

	// 短输入中的少量控制字符不视为二进制
	assert.NoError(t, ValidateInput([]byte("bell\x07")))
}
