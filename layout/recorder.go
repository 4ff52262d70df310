package layout

// pageAccumulator 收集单页上的绘制元素。
type pageAccumulator struct {
	texts []TextBox
	lines []Line
}

// Recorder 实现 Canvas，把绘制调用记录为按页划分的 Result，交给渲染器输出。
// 创建时即打开第一页。
type Recorder struct {
	width  float64
	height float64
	accs   []*pageAccumulator

	font   Font
	color  Color
	stroke Color
	meta   DocumentMeta
}

var _ Canvas = (*Recorder)(nil)

// NewRecorder 创建固定页面尺寸（mm）的记录画布。
func NewRecorder(width, height float64) *Recorder {
	r := &Recorder{width: width, height: height}
	r.newPage()
	return r
}

func (r *Recorder) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	r.accs = append(r.accs, acc)
	return acc
}

func (r *Recorder) curr() *pageAccumulator {
	if len(r.accs) == 0 {
		return r.newPage()
	}
	return r.accs[len(r.accs)-1]
}

func (r *Recorder) DrawText(text string, x, y float64) error {
	acc := r.curr()
	acc.texts = append(acc.texts, TextBox{Content: text, X: x, Y: y, Font: r.font, Color: r.color})
	return nil
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64) error {
	acc := r.curr()
	acc.lines = append(acc.lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Color: r.stroke})
	return nil
}

func (r *Recorder) NewPage() error {
	r.newPage()
	return nil
}

func (r *Recorder) SetFont(font Font) error {
	r.font = font
	return nil
}

func (r *Recorder) SetTextColor(c Color) error {
	r.color = c
	return nil
}

func (r *Recorder) SetStrokeColor(c Color) error {
	r.stroke = c
	return nil
}

func (r *Recorder) PageSize() (float64, float64) { return r.width, r.height }

// SetMeta 设置输出文档的元信息。
func (r *Recorder) SetMeta(meta DocumentMeta) { r.meta = meta }

// PageCount 返回已打开的页数。
func (r *Recorder) PageCount() int { return len(r.accs) }

// Result 返回已记录的页面。
func (r *Recorder) Result() *Result {
	pages := make([]Page, len(r.accs))
	for i, acc := range r.accs {
		pages[i] = Page{
			Width:  r.width,
			Height: r.height,
			Texts:  acc.texts,
			Lines:  acc.lines,
		}
	}
	return &Result{Pages: pages, Meta: r.meta}
}
