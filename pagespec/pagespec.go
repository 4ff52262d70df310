// Package pagespec 解析页面几何描述，例如 "A4 portrait margin 20mm"、
// "letter landscape margin 0.75in" 或自定义尺寸 "148mm 210mm margin 15mm"。
package pagespec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/vellum/layout"
)

// ErrUnknownSize 表示未知的纸张名称。
var ErrUnknownSize = errors.New("pagespec: unknown page size")

// DefaultMargin 是未声明 margin 时使用的页边距（mm）。
const DefaultMargin = layout.DefaultMargin

// Default 是空描述对应的页面：A4 纵向，20mm 页边距。
const Default = "A4 portrait margin 20mm"

var (
	specLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	})

	specParser = participle.MustBuild[Spec](
		participle.Lexer(specLexer),
		participle.CaseInsensitive("Ident"),
		participle.Elide("Whitespace"),
	)
)

// Spec 是页面描述的语法树。
type Spec struct {
	Pos         lexer.Position `parser:"" json:"-"`
	Size        Size           `parser:"@@"`
	Orientation string         `parser:"@( 'portrait' | 'landscape' )?"`
	Margin      string         `parser:"( 'margin' @Number )?"`
}

// Size 是纸张名称或自定义宽高二选一。
type Size struct {
	Custom *Dimensions `parser:"  @@"`
	Name   string      `parser:"| @Ident"`
}

// Dimensions 自定义宽高，例如 "148mm 210mm"。
type Dimensions struct {
	Width  string `parser:"@Number"`
	Height string `parser:"@Number"`
}

// Geometry 是解析后的页面尺寸与页边距，单位均为 mm。
type Geometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
}

// ContentWidth 返回左右页边距之间的可用宽度。
func (g Geometry) ContentWidth() float64 { return g.Width - 2*g.Margin }

var presets = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
	"LEGAL":  {215.9, 355.6},
}

// Parse 将描述解析为语法树，不做尺寸校验。
func Parse(input string) (*Spec, error) {
	return specParser.ParseString("", input)
}

// Resolve 解析并计算页面几何。空字符串返回 Default 对应的页面。
func Resolve(input string) (Geometry, error) {
	if strings.TrimSpace(input) == "" {
		input = Default
	}
	spec, err := Parse(input)
	if err != nil {
		return Geometry{}, fmt.Errorf("pagespec: parse %q: %w", input, err)
	}
	return spec.Geometry()
}

// Geometry 按预设或自定义尺寸计算页面，landscape 交换宽高。
func (s *Spec) Geometry() (Geometry, error) {
	var g Geometry
	if c := s.Size.Custom; c != nil {
		w, err := toMM(c.Width)
		if err != nil {
			return Geometry{}, err
		}
		h, err := toMM(c.Height)
		if err != nil {
			return Geometry{}, err
		}
		if w <= 0 || h <= 0 {
			return Geometry{}, fmt.Errorf("pagespec: page size must be positive, got %gx%g", w, h)
		}
		g.Width, g.Height = w, h
	} else {
		dims, ok := presets[strings.ToUpper(s.Size.Name)]
		if !ok {
			return Geometry{}, fmt.Errorf("%w: %s", ErrUnknownSize, s.Size.Name)
		}
		g.Width, g.Height = dims[0], dims[1]
	}

	switch strings.ToLower(s.Orientation) {
	case "landscape":
		if g.Width < g.Height {
			g.Width, g.Height = g.Height, g.Width
		}
	case "portrait":
		if g.Width > g.Height {
			g.Width, g.Height = g.Height, g.Width
		}
	}

	g.Margin = DefaultMargin
	if s.Margin != "" {
		m, err := toMM(s.Margin)
		if err != nil {
			return Geometry{}, err
		}
		g.Margin = m
	}
	if g.Margin < 0 {
		return Geometry{}, fmt.Errorf("pagespec: negative margin %g", g.Margin)
	}
	if 2*g.Margin >= g.Width || 2*g.Margin >= g.Height {
		return Geometry{}, fmt.Errorf("pagespec: margin %gmm leaves no content area on %gx%gmm", g.Margin, g.Width, g.Height)
	}
	return g, nil
}

func toMM(raw string) (float64, error) {
	l, err := layout.ParseLength(raw)
	if err != nil {
		return 0, fmt.Errorf("pagespec: %w", err)
	}
	return l.ToMM(), nil
}
