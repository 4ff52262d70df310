package layout

import "fmt"

// Weight 字重。
type Weight uint8

const (
	WeightNormal Weight = iota
	WeightBold
)

// Slant 字形倾斜。
type Slant uint8

const (
	SlantUpright Slant = iota
	SlantItalic
)

// Family 字体族。代码片段与代码块使用等宽字体。
type Family uint8

const (
	FamilyBody Family = iota
	FamilyMono
)

// Font 是影响排版的字体属性组合，Size 单位为 pt。
type Font struct {
	Size   float64 `json:"size"`
	Weight Weight  `json:"weight"`
	Slant  Slant   `json:"slant"`
	Family Family  `json:"family"`
}

// String 用于日志与调试输出。
func (f Font) String() string {
	w := "normal"
	if f.Weight == WeightBold {
		w = "bold"
	}
	s := "upright"
	if f.Slant == SlantItalic {
		s = "italic"
	}
	fam := "body"
	if f.Family == FamilyMono {
		fam = "mono"
	}
	return fmt.Sprintf("%s/%s/%s/%g", fam, w, s, f.Size)
}

// 正文与页眉页脚使用的固定字号（pt）。
const (
	bodySize        = 11.0
	titleSize       = 16.0
	attributionSize = 10.0
	footerSize      = 8.0
)

// styleState 是唯一的"当前样式"记录。各块在固定位置重置样式，而不是弹出先前的帧，
// 所以这里只保存单一记录，并且只在值变化时调用画布。
type styleState struct {
	canvas Canvas
	font   Font
	color  Color
	stroke Color
	primed bool
}

func newStyleState(c Canvas) *styleState {
	return &styleState{canvas: c}
}

func (s *styleState) setFont(f Font) error {
	if s.primed && s.font == f {
		return nil
	}
	if err := s.canvas.SetFont(f); err != nil {
		return err
	}
	s.font = f
	s.primed = true
	return nil
}

// setFace 修改字重/倾斜/字体族，保留字号。
func (s *styleState) setFace(w Weight, sl Slant, fam Family) error {
	f := s.font
	f.Weight, f.Slant, f.Family = w, sl, fam
	return s.setFont(f)
}

func (s *styleState) setColor(c Color) error {
	if err := s.canvas.SetTextColor(c); err != nil {
		return err
	}
	s.color = c
	return nil
}

func (s *styleState) setStroke(c Color) error {
	if err := s.canvas.SetStrokeColor(c); err != nil {
		return err
	}
	s.stroke = c
	return nil
}

// resetBody 恢复正文样式：11pt、常规、黑色。
func (s *styleState) resetBody() error {
	if err := s.setFont(Font{Size: bodySize}); err != nil {
		return err
	}
	return s.setColor(Black)
}
