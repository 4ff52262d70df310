package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/vellum/fonts"
	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/renderer"
)

const defaultLineWidth = 0.2

// Renderer draws layout results via github.com/tdewolff/canvas and measures
// text with the same faces, so layout decisions match the output.
type Renderer struct {
	creator string

	fontMu   sync.Mutex
	families map[familyKey]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Metrics    = (*Renderer)(nil)
)

type familyKey struct {
	family layout.Family
	weight layout.Weight
	slant  layout.Slant
}

// Options configures the canvas renderer.
type Options struct {
	// Creator is written to the PDF info dictionary when the result carries none.
	Creator string
}

// NewRenderer creates a renderer backed by the built-in Go fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with the given options.
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{
		creator:  opts.Creator,
		families: map[familyKey]*canvas.FontFamily{},
	}
}

// Measure 返回 text 在 font 下的宽度（mm）。font.Size 为 pt。
// 可被多个渲染过程并发调用。
func (r *Renderer) Measure(text string, font layout.Font) (float64, error) {
	if text == "" {
		return 0, nil
	}
	face, err := r.fontFace(font, layout.Black)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	creator := meta.Creator
	if creator == "" {
		creator = r.creator
	}
	writer.SetInfo(meta.Title, meta.Subject, "", meta.Author, creator)
}

// drawPage 先画线再画文字，线条不会盖住文本。
func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	r.drawLines(ctx, page.Lines)
	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	return nil
}

// drawTextBox 以 (X, Y) 为左端基线绘制单行文本，空文本不产生任何输出。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	if tb.Content == "" {
		return nil
	}
	face, err := r.fontFace(tb.Font, tb.Color)
	if err != nil {
		return err
	}
	ctx.DrawText(tb.X, tb.Y, canvas.NewTextLine(face, tb.Content, canvas.Left))
	return nil
}

// drawLines 绘制直线列表（毫米单位）
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultLineWidth
		}
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

func (r *Renderer) fontFace(font layout.Font, col layout.Color) (*canvas.FontFace, error) {
	if font.Size <= 0 {
		return nil, fmt.Errorf("无效字号 %g", font.Size)
	}
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(font.Size, colorFromLayout(col), style, canvas.FontNormal), nil
}

// ensureFontFamily 每种 family/weight/slant 组合只加载一次字体文件。
func (r *Renderer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := familyKey{family: font.Family, weight: font.Weight, slant: font.Slant}
	style := fontStyle(font)

	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.families[key]; ok {
		return family, style, nil
	}
	name, data := fontData(key)
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	r.families[key] = family
	return family, style, nil
}

func fontData(key familyKey) (string, []byte) {
	bold := key.weight == layout.WeightBold
	if key.family == layout.FamilyMono {
		return fonts.MonoFamily, fonts.Mono(bold)
	}
	return fonts.BodyFamily, fonts.Body(bold, key.slant == layout.SlantItalic)
}

func fontStyle(font layout.Font) canvas.FontStyle {
	style := canvas.FontRegular
	if font.Weight == layout.WeightBold {
		style = canvas.FontBold
	}
	// 等宽字体没有斜体字形，按常规体加载
	if font.Slant == layout.SlantItalic && font.Family != layout.FamilyMono {
		style |= canvas.FontItalic
	}
	return style
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
