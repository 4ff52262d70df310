package layout

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/vellum/document"
)

const (
	blockLookahead    = 5.0
	itemLookahead     = 6.0
	blockGap          = 3.0
	itemGap           = 2.0
	ruleAdvance       = 10.0
	listIndent        = 10.0
	listWidthShrink   = 15.0
	quoteIndent       = 10.0
	quoteWidthShrink  = 10.0
	codeIndent        = 5.0
	quoteBarAbove     = 2.0
	quoteBarBelow     = 10.0
	headingBaseSize   = 14.0
	headingMinSize    = 10.0
	headingStepFactor = 0.5
)

// renderBlock 按块类型分派到固定的渲染规则。没有任何可绘制文本的块被静默跳过。
func (e *engine) renderBlock(b document.Block) error {
	switch b := b.(type) {
	case document.Heading:
		return e.renderHeading(b)
	case *document.Heading:
		return e.renderHeading(*b)
	case document.Paragraph:
		return e.renderParagraph(b)
	case *document.Paragraph:
		return e.renderParagraph(*b)
	case document.List:
		return e.renderList(b)
	case *document.List:
		return e.renderList(*b)
	case document.CodeBlock:
		return e.renderCode(b)
	case *document.CodeBlock:
		return e.renderCode(*b)
	case document.BlockQuote:
		return e.renderQuote(b)
	case *document.BlockQuote:
		return e.renderQuote(*b)
	case document.Rule, *document.Rule:
		return e.renderRule()
	case document.RawText:
		return e.renderRaw(b.Text)
	case *document.RawText:
		return e.renderRaw(b.Text)
	default:
		e.log.Debug("skip unknown block", zap.String("type", fmt.Sprintf("%T", b)))
		return nil
	}
}

// headingSize 返回 max(14-depth, 10)，depth 被限制在 1..6。
func headingSize(depth int) float64 {
	if depth < 1 {
		depth = 1
	}
	if depth > 6 {
		depth = 6
	}
	return math.Max(headingBaseSize-float64(depth), headingMinSize)
}

func (e *engine) renderHeading(h document.Heading) error {
	text := document.FlattenText(h.Spans)
	if strings.TrimSpace(text) == "" {
		e.skip("heading")
		return nil
	}
	size := headingSize(h.Depth)
	font := Font{Size: size, Weight: WeightBold}
	if err := e.style.setFont(font); err != nil {
		return err
	}
	lines, err := e.splitToSize(text, e.cur.contentWidth(), font)
	if err != nil {
		return err
	}
	// 标题行距与字号成比例，不同于正文的固定行距
	step := size * headingStepFactor
	if err := e.drawLines(lines, e.cur.margin, step, true); err != nil {
		return err
	}
	e.cur.advance(blockGap)
	return e.style.setFont(Font{Size: bodySize})
}

func (e *engine) renderParagraph(p document.Paragraph) error {
	if len(p.Spans) > 0 {
		segs := segmentsFrom(p.Spans, bodySize)
		if len(segs) == 0 {
			e.skip("paragraph")
			return nil
		}
		if err := e.wrapSegments(segs, e.cur.contentWidth(), 0); err != nil {
			return err
		}
		e.cur.advance(blockGap)
		return nil
	}
	if p.Text == "" {
		e.skip("paragraph")
		return nil
	}
	lines, err := e.splitToSize(p.Text, e.cur.contentWidth(), e.style.font)
	if err != nil {
		return err
	}
	if err := e.drawLines(lines, e.cur.margin, lineStep, true); err != nil {
		return err
	}
	e.cur.advance(blockGap)
	return nil
}

// listMarker 有序列表使用从 1 开始的序号，无序列表统一使用圆点。
func listMarker(ordered bool, index int) string {
	if ordered {
		return fmt.Sprintf("%d. ", index+1)
	}
	return "• "
}

func (e *engine) renderList(l document.List) error {
	if len(l.Items) == 0 {
		e.skip("list")
		return nil
	}
	width := e.cur.contentWidth() - listWidthShrink
	for i, item := range l.Items {
		if _, err := e.cur.ensureSpace(itemLookahead); err != nil {
			return err
		}
		if err := e.style.setFace(WeightNormal, SlantUpright, FamilyBody); err != nil {
			return err
		}
		if err := e.canvas.DrawText(listMarker(l.Ordered, i), e.cur.margin, e.cur.y); err != nil {
			return err
		}
		lines, err := e.splitToSize(document.FlattenText(item), width, e.style.font)
		if err != nil {
			return err
		}
		// 续行与首行对齐在 margin+10；首行与标记同行，不再单独检查
		if err := e.drawLines(lines, e.cur.margin+listIndent, lineStep, false); err != nil {
			return err
		}
		e.cur.advance(itemGap)
	}
	e.cur.advance(blockGap)
	return nil
}

func (e *engine) renderCode(c document.CodeBlock) error {
	if len(c.Lines) == 0 {
		e.skip("code")
		return nil
	}
	if err := e.style.setFace(WeightNormal, SlantUpright, FamilyMono); err != nil {
		return err
	}
	if err := e.style.setColor(CodeBlockFg); err != nil {
		return err
	}
	// 代码行原样绘制，不折行也不检查宽度；空行同样推进一个行距
	if err := e.drawLines(c.Lines, e.cur.margin+codeIndent, lineStep, true); err != nil {
		return err
	}
	if err := e.style.setColor(Black); err != nil {
		return err
	}
	if err := e.style.setFace(WeightNormal, SlantUpright, FamilyBody); err != nil {
		return err
	}
	e.cur.advance(blockGap)
	return nil
}

func (e *engine) renderQuote(q document.BlockQuote) error {
	text := q.Text
	if len(q.Spans) > 0 {
		text = document.FlattenText(q.Spans)
	}
	if strings.TrimSpace(text) == "" {
		e.skip("blockquote")
		return nil
	}
	if err := e.style.setStroke(RuleGray); err != nil {
		return err
	}
	// 竖线只覆盖前两行左右的高度
	m := e.cur.margin
	if err := e.canvas.DrawLine(m, e.cur.y-quoteBarAbove, m, e.cur.y+quoteBarBelow); err != nil {
		return err
	}
	if err := e.style.setFace(WeightNormal, SlantItalic, FamilyBody); err != nil {
		return err
	}
	lines, err := e.splitToSize(text, e.cur.contentWidth()-quoteWidthShrink, e.style.font)
	if err != nil {
		return err
	}
	if err := e.drawLines(lines, m+quoteIndent, lineStep, true); err != nil {
		return err
	}
	if err := e.style.setFace(WeightNormal, SlantUpright, FamilyBody); err != nil {
		return err
	}
	e.cur.advance(blockGap)
	return nil
}

func (e *engine) renderRule() error {
	if _, err := e.cur.ensureSpace(blockLookahead); err != nil {
		return err
	}
	if err := e.style.setStroke(RuleGray); err != nil {
		return err
	}
	if err := e.canvas.DrawLine(e.cur.margin, e.cur.y, e.cur.right(), e.cur.y); err != nil {
		return err
	}
	e.cur.advance(ruleAdvance)
	return nil
}

func (e *engine) renderRaw(text string) error {
	if text == "" {
		e.skip("raw")
		return nil
	}
	lines, err := e.splitToSize(text, e.cur.contentWidth(), e.style.font)
	if err != nil {
		return err
	}
	return e.drawLines(lines, e.cur.margin, lineStep, true)
}

func (e *engine) skip(kind string) {
	e.log.Debug("skip block without text", zap.String("kind", kind))
}
