package canvasrenderer

import (
	"bytes"
	"sync"
	"testing"

	"github.com/ByLCY/vellum/document"
	"github.com/ByLCY/vellum/layout"
)

func body(size float64) layout.Font { return layout.Font{Size: size} }

func TestMeasureGrowsWithText(t *testing.T) {
	r := NewRenderer()
	short, err := r.Measure("hello", body(11))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	long, err := r.Measure("hello world", body(11))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if short <= 0 || long <= short {
		t.Fatalf("宽度应随文本增长: short=%g long=%g", short, long)
	}
	// 11pt 下单个单词应远小于 A4 内容宽度
	if short > 50 {
		t.Fatalf("宽度单位应为 mm，实际 %g", short)
	}
	if w, _ := r.Measure("", body(11)); w != 0 {
		t.Fatalf("空文本宽度应为 0，实际 %g", w)
	}
}

func TestMeasureScalesWithSizeAndWeight(t *testing.T) {
	r := NewRenderer()
	regular, _ := r.Measure("Typesetting", body(11))
	larger, _ := r.Measure("Typesetting", body(22))
	if diff := larger - 2*regular; diff > 1e-3*larger || diff < -1e-3*larger {
		t.Fatalf("字号翻倍宽度应翻倍: %g vs %g", larger, regular)
	}
	bold, err := r.Measure("Typesetting", layout.Font{Size: 11, Weight: layout.WeightBold})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bold < regular {
		t.Fatalf("粗体不应比常规体窄: bold=%g regular=%g", bold, regular)
	}
	italic, err := r.Measure("Typesetting", layout.Font{Size: 11, Slant: layout.SlantItalic})
	if err != nil || italic <= 0 {
		t.Fatalf("斜体度量失败: %g %v", italic, err)
	}
}

func TestMonoIsFixedWidth(t *testing.T) {
	r := NewRenderer()
	mono := layout.Font{Size: 10, Family: layout.FamilyMono}
	a, _ := r.Measure("iiii", mono)
	b, _ := r.Measure("MMMM", mono)
	if diff := a - b; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("等宽字体宽度应一致: %g vs %g", a, b)
	}
	if _, err := r.Measure("x", layout.Font{Size: 10, Family: layout.FamilyMono, Slant: layout.SlantItalic}); err != nil {
		t.Fatalf("等宽斜体应回退为常规体: %v", err)
	}
}

func TestMeasureRejectsZeroSize(t *testing.T) {
	if _, err := NewRenderer().Measure("x", layout.Font{}); err == nil {
		t.Fatalf("字号为 0 应报错")
	}
}

func TestConcurrentMeasure(t *testing.T) {
	r := NewRenderer()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f := layout.Font{Size: 11, Weight: layout.Weight(i % 2), Slant: layout.Slant((i / 2) % 2)}
			if _, err := r.Measure("concurrent", f); err != nil {
				t.Errorf("measure: %v", err)
			}
		}(i)
	}
	wg.Wait()
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRendererWithOptions(Options{Creator: "vellum"})
	rec := layout.NewRecorder(210, 297)
	rec.SetMeta(layout.DocumentMeta{Title: "LLM Council - Final Answer"})
	doc := document.Document{Blocks: []document.Block{
		document.Heading{Depth: 1, Spans: []document.Span{document.Text("Answer")}},
		document.Paragraph{Spans: []document.Span{document.Text("Hello "), {Kind: document.Strong, Text: "world"}}},
		document.CodeBlock{Lines: []string{"fmt.Println()", ""}},
		document.Rule{},
	}}
	if err := layout.Render(doc, layout.Options{Canvas: rec, Metrics: r, Attribution: "org/model"}); err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	data, err := r.Render(rec.Result())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("nil 结果应报错")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("无页面结果应报错")
	}
}
