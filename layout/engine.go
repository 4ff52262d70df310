package layout

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/document"
)

const (
	headerAdvance = 10.0
	footerOffset  = 10.0
)

// engine 持有一次渲染的全部可变状态。一个实例只渲染一个文档，不可复用。
type engine struct {
	canvas  Canvas
	metrics Metrics
	style   *styleState
	cur     *cursor
	opts    Options
	log     *zap.Logger
}

// Render 将文档单遍排版到 opts.Canvas：页眉、按文档顺序分派的正文块、页脚。
// 度量或画布返回的错误会立即中止渲染并原样返回，不保证部分输出可用。
func Render(doc document.Document, opts Options) error {
	if opts.Canvas == nil {
		return errors.New("layout: 缺少画布 Canvas")
	}
	if opts.Metrics == nil {
		return errors.New("layout: 缺少文本度量 Metrics")
	}
	opts = opts.withDefaults()
	e := &engine{
		canvas:  opts.Canvas,
		metrics: opts.Metrics,
		style:   newStyleState(opts.Canvas),
		cur:     newCursor(opts.Canvas, opts.Margin, opts.Logger),
		opts:    opts,
		log:     opts.Logger,
	}
	if opts.Footer == FooterEveryPage {
		e.cur.beforeBreak = e.footerPreservingStyle
	}

	if err := e.header(); err != nil {
		return err
	}
	for _, b := range doc.Blocks {
		if _, err := e.cur.ensureSpace(blockLookahead); err != nil {
			return err
		}
		if err := e.renderBlock(b); err != nil {
			return err
		}
	}
	if err := e.footer(); err != nil {
		return err
	}
	e.log.Debug("render finished", zap.Int("pages", e.cur.pages), zap.Int("blocks", len(doc.Blocks)))
	return nil
}

// AttributionName 取标识中第一个 "/" 之后的部分；没有 "/" 或其后为空时返回原串。
func AttributionName(id string) string {
	if i := strings.IndexByte(id, '/'); i >= 0 && i+1 < len(id) {
		return id[i+1:]
	}
	return id
}

func (e *engine) templateData() map[string]any {
	return map[string]any{
		"title":       e.opts.Title,
		"model":       e.opts.Attribution,
		"attribution": AttributionName(e.opts.Attribution),
		"timestamp":   e.opts.Timestamp,
	}
}

// header 绘制固定的页眉：16pt 粗体标题、10pt 署名行、分隔线，然后恢复 11pt 常规黑色正文样式。
func (e *engine) header() error {
	m := e.cur.margin
	if err := e.style.setColor(Black); err != nil {
		return err
	}
	if err := e.style.setFont(Font{Size: titleSize, Weight: WeightBold}); err != nil {
		return err
	}
	if err := e.canvas.DrawText(e.opts.Title, m, e.cur.y); err != nil {
		return err
	}
	e.cur.advance(headerAdvance)

	if err := e.style.setFont(Font{Size: attributionSize}); err != nil {
		return err
	}
	line := binding.Interpolate(e.opts.AttributionFormat, e.templateData())
	if err := e.canvas.DrawText(line, m, e.cur.y); err != nil {
		return err
	}
	e.cur.advance(headerAdvance)

	if err := e.style.setStroke(Separator); err != nil {
		return err
	}
	if err := e.canvas.DrawLine(m, e.cur.y, e.cur.right(), e.cur.y); err != nil {
		return err
	}
	e.cur.advance(headerAdvance)
	return e.style.resetBody()
}

// footer 在当前页底部固定位置绘制 8pt 灰色时间戳。
func (e *engine) footer() error {
	if err := e.style.setFont(Font{Size: footerSize}); err != nil {
		return err
	}
	if err := e.style.setColor(FooterGray); err != nil {
		return err
	}
	text := binding.Interpolate(e.opts.FooterFormat, e.templateData())
	return e.canvas.DrawText(text, e.cur.margin, e.cur.pageH-footerOffset)
}

// footerPreservingStyle 用于换页前的页脚，绘制后恢复正在使用的样式。
func (e *engine) footerPreservingStyle() error {
	font, color := e.style.font, e.style.color
	if err := e.footer(); err != nil {
		return err
	}
	if err := e.style.setFont(font); err != nil {
		return err
	}
	return e.style.setColor(color)
}
