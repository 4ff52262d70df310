package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/vellum/export"
	"github.com/ByLCY/vellum/layout"
)

const watchDebounce = 200 * time.Millisecond

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "渲染一个或多个 Markdown 文件",
		ArgsUsage: "FILES...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "署名模型标识，例如 org/model", Sources: cli.EnvVars("VELLUM_MODEL")},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "PDF 输出目录（默认取配置 output.dir）"},
			&cli.StringFlag{Name: "debug", Usage: "布局调试 JSON 输出目录"},
			&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "文件变化时重新渲染"},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "并发渲染的文件数", Value: 4},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return errors.New("至少需要一个输入文件")
			}
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			job := renderJob{
				svc:      a.svc,
				log:      a.log,
				model:    cmd.String("model"),
				outDir:   cmd.String("out"),
				debugDir: cmd.String("debug"),
			}
			if job.outDir == "" {
				job.outDir = a.cfg.Output.Dir
			}
			if err := job.renderAll(ctx, files, int(cmd.Int("jobs"))); err != nil {
				return err
			}
			if !cmd.Bool("watch") {
				return nil
			}
			return job.watch(ctx, files)
		},
	}
}

// renderJob 描述一组文件的渲染参数，每个文件独立排版。
type renderJob struct {
	svc      *export.Service
	log      *zap.Logger
	model    string
	outDir   string
	debugDir string
}

// renderAll 以最多 jobs 个并发渲染全部文件，遇到首个错误即取消其余任务。
func (j renderJob) renderAll(ctx context.Context, files []string, jobs int) error {
	if jobs < 1 {
		jobs = 1
	}
	if err := os.MkdirAll(j.outDir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, file := range files {
		g.Go(func() error {
			_, err := j.renderFile(gCtx, file)
			return err
		})
	}
	return g.Wait()
}

// renderFile 渲染单个文件并返回生成的 PDF 路径。
func (j renderJob) renderFile(ctx context.Context, path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	art, err := j.svc.Export(ctx, export.Request{Model: j.model, Response: string(src)})
	if err != nil {
		return "", fmt.Errorf("渲染 %s 失败: %w", path, err)
	}
	out := filepath.Join(j.outDir, art.Name)
	if err := os.WriteFile(out, art.Data, 0o644); err != nil {
		return "", fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	if j.debugDir != "" {
		if err := writeDebug(art.Layout, j.debugPath(path)); err != nil {
			return "", err
		}
	}
	j.log.Info("已生成 PDF", zap.String("input", path), zap.String("output", out), zap.Int("pages", art.Pages))
	return out, nil
}

func (j renderJob) debugPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(j.debugDir, base+".layout.json")
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// watch 监听输入文件所在目录，文件写入后去抖再渲染；单次失败只记录日志。
func (j renderJob) watch(ctx context.Context, files []string) error {
	w, targets, err := newFileWatcher(files)
	if err != nil {
		return err
	}
	defer w.Close()
	j.log.Info("watching for changes", zap.Int("files", len(targets)))
	return j.watchLoop(ctx, w, targets)
}

// newFileWatcher 监听 files 的父目录，返回按绝对路径索引的目标文件集合。
func newFileWatcher(files []string) (*fsnotify.Watcher, map[string]bool, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("创建文件监听失败: %w", err)
	}
	targets := map[string]bool{}
	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = w.Close()
			return nil, nil, err
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, nil, fmt.Errorf("监听目录 %s 失败: %w", dir, err)
		}
	}
	return w, targets, nil
}

func (j renderJob) watchLoop(ctx context.Context, w *fsnotify.Watcher, targets map[string]bool) error {
	pending := map[string]bool{}
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !targets[ev.Name] || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending[ev.Name] = true
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				fire = timer.C
			} else {
				timer.Reset(watchDebounce)
			}
		case <-fire:
			for path := range pending {
				if _, err := j.renderFile(ctx, path); err != nil {
					j.log.Warn("re-render failed", zap.String("input", path), zap.Error(err))
				}
			}
			pending = map[string]bool{}
			timer, fire = nil, nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			j.log.Warn("watcher error", zap.Error(err))
		}
	}
}
