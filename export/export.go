// Package export 实现"导出 PDF"动作：把一段 Markdown 回答渲染为带页眉页脚的 PDF。
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/markdown"
	"github.com/ByLCY/vellum/pagespec"
	"github.com/ByLCY/vellum/renderer"
)

// ErrEmptyResponse 表示没有可导出的回答内容。
var ErrEmptyResponse = errors.New("export: empty response")

// DefaultTimestampLayout 页脚时间戳的默认格式。
const DefaultTimestampLayout = "2006-01-02 15:04:05"

const creator = "vellum"

// Request 是一次导出的输入。
type Request struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// Artifact 是导出的文件。
type Artifact struct {
	Name   string
	Data   []byte
	Pages  int
	Layout *layout.Result
}

// Options 控制页面与页眉页脚文字，零值字段使用默认值。
type Options struct {
	Page              pagespec.Geometry
	Title             string
	AttributionFormat string
	FooterFormat      string
	Footer            layout.FooterPlacement
	TimestampLayout   string
	Now               func() time.Time
	Logger            *zap.Logger
}

// Service 串联解析、排版与渲染。每次 Export 使用独立的排版状态，可并发调用。
type Service struct {
	renderer renderer.MeasuringRenderer
	opts     Options

	mu       sync.Mutex
	lastName int64
}

// NewService 创建导出服务。
func NewService(r renderer.MeasuringRenderer, opts Options) *Service {
	if opts.Page == (pagespec.Geometry{}) {
		opts.Page = pagespec.Geometry{Width: 210, Height: 297, Margin: pagespec.DefaultMargin}
	}
	if opts.TimestampLayout == "" {
		opts.TimestampLayout = DefaultTimestampLayout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{renderer: r, opts: opts}
}

// FileName 返回 llm-council-answer-<毫秒时间戳>.pdf。
func FileName(t time.Time) string {
	return fmt.Sprintf("llm-council-answer-%d.pdf", t.UnixMilli())
}

// Export 生成 PDF。输入非法时返回的错误可用 errors.Is 判断
// ErrEmptyResponse、markdown.ErrInvalidUTF8 或 markdown.ErrBinaryInput。
func (s *Service) Export(ctx context.Context, req Request) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	if strings.TrimSpace(req.Response) == "" {
		return Artifact{}, ErrEmptyResponse
	}
	start := time.Now()
	now := s.opts.Now()

	doc, err := markdown.Parse([]byte(req.Response))
	if err != nil {
		return Artifact{}, fmt.Errorf("export: parse response: %w", err)
	}

	g := s.opts.Page
	rec := layout.NewRecorder(g.Width, g.Height)
	rec.SetMeta(layout.DocumentMeta{
		Title:   s.title(),
		Author:  layout.AttributionName(req.Model),
		Subject: req.Model,
		Creator: creator,
	})
	err = layout.Render(doc, layout.Options{
		Canvas:            rec,
		Metrics:           s.renderer,
		Margin:            g.Margin,
		Title:             s.opts.Title,
		Attribution:       req.Model,
		AttributionFormat: s.opts.AttributionFormat,
		Timestamp:         now.Format(s.opts.TimestampLayout),
		FooterFormat:      s.opts.FooterFormat,
		Footer:            s.opts.Footer,
		Logger:            s.opts.Logger,
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("export: layout: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	res := rec.Result()
	data, err := s.renderer.Render(res)
	if err != nil {
		return Artifact{}, fmt.Errorf("export: render pdf: %w", err)
	}

	name := s.uniqueName(now)
	s.opts.Logger.Info("export finished",
		zap.String("file", name),
		zap.String("model", req.Model),
		zap.Int("blocks", len(doc.Blocks)),
		zap.Int("pages", len(res.Pages)),
		zap.Int("bytes", len(data)),
		zap.Duration("took", time.Since(start)))
	return Artifact{Name: name, Data: data, Pages: len(res.Pages), Layout: res}, nil
}

func (s *Service) title() string {
	if s.opts.Title != "" {
		return s.opts.Title
	}
	return layout.DefaultTitle
}

// uniqueName 保证同一服务内文件名严格递增，同一毫秒内的导出顺延到下一毫秒。
func (s *Service) uniqueName(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := t.UnixMilli()
	if ms <= s.lastName {
		ms = s.lastName + 1
	}
	s.lastName = ms
	return FileName(time.UnixMilli(ms))
}
