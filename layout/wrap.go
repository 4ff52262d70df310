package layout

import (
	"strings"

	"github.com/ByLCY/vellum/document"
)

// lineStep 正文行距固定为 5，与字号无关；只有标题按字号比例推进。
const lineStep = 5.0

// segment 是一段带样式的文本，由行内片段映射而来。
type segment struct {
	text  string
	font  Font
	color Color
}

// segmentsFrom 把片段映射为带样式的文本段，空文本的片段被丢弃。
func segmentsFrom(spans []document.Span, size float64) []segment {
	segs := make([]segment, 0, len(spans))
	for _, sp := range spans {
		text := sp.Literal()
		if text == "" {
			continue
		}
		seg := segment{text: text, font: Font{Size: size}, color: Black}
		switch sp.Kind {
		case document.Strong:
			seg.font.Weight = WeightBold
		case document.Emphasis:
			seg.font.Slant = SlantItalic
		case document.Code:
			seg.font.Family = FamilyMono
			seg.color = CodeSpan
		}
		segs = append(segs, seg)
	}
	return segs
}

// wrapSegments 从左到右逐词放置各段文本，可用宽度为 width，起点为 margin+offset。
// 每段内的词按单个空格切分，段内非首词携带前导空格；每个词在自身样式下测量并独立决定是否换行，
// 因此同一行可以混排多种样式。放不下时先推进一行再检查分页；超宽的单词从不拆分，即使位于行首也会先推进一行。
func (e *engine) wrapSegments(segs []segment, width, offset float64) error {
	if len(segs) == 0 {
		return nil
	}
	start := e.cur.margin + offset
	limit := start + width
	e.cur.x = start
	for _, seg := range segs {
		if err := e.style.setFont(seg.font); err != nil {
			return err
		}
		if err := e.style.setColor(seg.color); err != nil {
			return err
		}
		for i, word := range strings.Split(seg.text, " ") {
			if i > 0 {
				word = " " + word
			}
			w, err := e.metrics.Measure(word, seg.font)
			if err != nil {
				return err
			}
			if e.cur.x+w > limit {
				e.cur.advance(lineStep)
				e.cur.x = start
				if _, err := e.cur.ensureSpace(lineStep); err != nil {
					return err
				}
			}
			if err := e.canvas.DrawText(word, e.cur.x, e.cur.y); err != nil {
				return err
			}
			e.cur.x += w
		}
	}
	if err := e.style.setColor(Black); err != nil {
		return err
	}
	if err := e.style.setFace(WeightNormal, SlantUpright, FamilyBody); err != nil {
		return err
	}
	e.cur.x = e.cur.margin
	e.cur.advance(lineStep)
	return nil
}

// splitToSize 将纯文本按宽度贪心切分为多行：尊重显式换行，在单个空格处断开，
// 不在词内拆分（超宽单词独占一行）。空输入返回单个空行。
func (e *engine) splitToSize(text string, width float64, font Font) ([]string, error) {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for i, word := range strings.Split(para, " ") {
			if i == 0 {
				line = word
				continue
			}
			candidate := line + " " + word
			w, err := e.metrics.Measure(candidate, font)
			if err != nil {
				return nil, err
			}
			if w > width && line != "" {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// drawLines 逐行绘制已切分的文本，每行先检查 step 高度的剩余空间。
// checkFirst 为 false 时首行沿用调用方已做过的空间检查（列表项与标记同行）。
func (e *engine) drawLines(lines []string, x, step float64, checkFirst bool) error {
	for i, line := range lines {
		if i > 0 || checkFirst {
			if _, err := e.cur.ensureSpace(step); err != nil {
				return err
			}
		}
		if err := e.canvas.DrawText(line, x, e.cur.y); err != nil {
			return err
		}
		e.cur.advance(step)
	}
	return nil
}
