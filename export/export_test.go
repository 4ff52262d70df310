package export

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/markdown"
	canvasrenderer "github.com/ByLCY/vellum/renderer/canvas"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

// fakeRenderer 按字符数度量，Render 只记录收到的结果。
type fakeRenderer struct {
	renderErr error
	got       *layout.Result
}

func (f *fakeRenderer) Measure(text string, font layout.Font) (float64, error) {
	return float64(len([]rune(text))) * font.Size * 0.2, nil
}

func (f *fakeRenderer) Render(res *layout.Result) ([]byte, error) {
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	f.got = res
	return []byte("%PDF-fake"), nil
}

func newService(r *fakeRenderer, mutate func(*Options)) *Service {
	opts := Options{
		AttributionFormat: "Chairman: ${attribution}",
		FooterFormat:      "Generated on ${timestamp}",
		Now:               func() time.Time { return fixedNow },
	}
	if mutate != nil {
		mutate(&opts)
	}
	return NewService(r, opts)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "llm-council-answer-1741064767000.pdf", FileName(fixedNow))
}

func TestExportBuildsHeaderAndFooter(t *testing.T) {
	r := &fakeRenderer{}
	svc := newService(r, nil)

	art, err := svc.Export(context.Background(), Request{Model: "openai/gpt-x", Response: "# Hi\n\nBody text."})
	require.NoError(t, err)

	assert.Equal(t, FileName(fixedNow), art.Name)
	assert.Equal(t, []byte("%PDF-fake"), art.Data)
	assert.Equal(t, 1, art.Pages)
	require.NotNil(t, r.got)
	assert.Same(t, r.got, art.Layout)

	texts := r.got.Pages[0].Texts
	assert.Equal(t, layout.DefaultTitle, texts[0].Content)
	assert.Equal(t, "Chairman: gpt-x", texts[1].Content)
	assert.Equal(t, "Generated on 2025-03-04 05:06:07", texts[len(texts)-1].Content)

	assert.Equal(t, layout.DocumentMeta{
		Title:   layout.DefaultTitle,
		Author:  "gpt-x",
		Subject: "openai/gpt-x",
		Creator: "vellum",
	}, r.got.Meta)
}

func TestExportUsesPageGeometry(t *testing.T) {
	r := &fakeRenderer{}
	svc := newService(r, func(o *Options) {
		o.Page.Width, o.Page.Height, o.Page.Margin = 148, 210, 15
		o.TimestampLayout = time.RFC3339
	})
	_, err := svc.Export(context.Background(), Request{Model: "m", Response: "text"})
	require.NoError(t, err)

	p := r.got.Pages[0]
	assert.Equal(t, 148.0, p.Width)
	assert.Equal(t, 210.0, p.Height)
	assert.Equal(t, 15.0, p.Texts[0].X)
	assert.Equal(t, "Generated on 2025-03-04T05:06:07Z", p.Texts[len(p.Texts)-1].Content)
}

func TestExportRejectsEmptyAndBinary(t *testing.T) {
	svc := newService(&fakeRenderer{}, nil)

	_, err := svc.Export(context.Background(), Request{Model: "m", Response: "  \n\t"})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = svc.Export(context.Background(), Request{Model: "m", Response: "bad\x00data"})
	assert.ErrorIs(t, err, markdown.ErrBinaryInput)
}

func TestExportPropagatesRenderError(t *testing.T) {
	boom := errors.New("disk full")
	svc := newService(&fakeRenderer{renderErr: boom}, nil)
	_, err := svc.Export(context.Background(), Request{Model: "m", Response: "text"})
	assert.ErrorIs(t, err, boom)
}

func TestExportHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newService(&fakeRenderer{}, nil).Export(ctx, Request{Model: "m", Response: "text"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentExportsGetDistinctNames(t *testing.T) {
	svc := NewService(canvasrenderer.NewRenderer(), Options{Now: func() time.Time { return fixedNow }})

	const n = 6
	names := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			art, err := svc.Export(context.Background(), Request{
				Model:    "org/model",
				Response: strings.Repeat("paragraph with **bold** text\n\n", 10+i),
			})
			if assert.NoError(t, err) {
				assert.True(t, bytes.HasPrefix(art.Data, []byte("%PDF")))
				names[i] = art.Name
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, name := range names {
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}
