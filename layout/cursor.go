package layout

import "go.uber.org/zap"

// cursor 持有当前写入位置与页面几何信息，负责贪心、局部的分页：
// 只看下一行/下一个元素的高度，已放置的内容从不回流。
type cursor struct {
	canvas Canvas
	log    *zap.Logger

	x, y   float64
	pageW  float64
	pageH  float64
	margin float64
	pages  int

	// beforeBreak 在关闭当前页之前调用（用于每页页脚）。
	beforeBreak func() error
}

func newCursor(c Canvas, margin float64, log *zap.Logger) *cursor {
	w, h := c.PageSize()
	return &cursor{
		canvas: c,
		log:    log,
		x:      margin,
		y:      margin,
		pageW:  w,
		pageH:  h,
		margin: margin,
		pages:  1,
	}
}

// contentWidth 页面宽度减去左右边距。
func (c *cursor) contentWidth() float64 { return c.pageW - 2*c.margin }

// right 内容区域右边界。
func (c *cursor) right() float64 { return c.pageW - c.margin }

// bottom 内容区域下边界。
func (c *cursor) bottom() float64 { return c.pageH - c.margin }

// ensureSpace 在 y+height 超出下边界时换页，返回是否发生了换页。
func (c *cursor) ensureSpace(height float64) (bool, error) {
	if c.y+height <= c.bottom() {
		return false, nil
	}
	if err := c.pageBreak(); err != nil {
		return false, err
	}
	return true, nil
}

func (c *cursor) pageBreak() error {
	if c.beforeBreak != nil {
		if err := c.beforeBreak(); err != nil {
			return err
		}
	}
	if err := c.canvas.NewPage(); err != nil {
		return err
	}
	c.pages++
	c.x = c.margin
	c.y = c.margin
	c.log.Debug("page break", zap.Int("page", c.pages))
	return nil
}

func (c *cursor) advance(dy float64) { c.y += dy }
