package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/ByLCY/vellum/config"
	"github.com/ByLCY/vellum/export"
	"github.com/ByLCY/vellum/logger"
	canvasrenderer "github.com/ByLCY/vellum/renderer/canvas"
)

func main() {
	cmd := &cli.Command{
		Name:  "vellum",
		Usage: "将 Markdown 回答排版为带页眉页脚的 PDF",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "配置文件路径，不存在时使用默认配置",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{renderCommand(), serveCommand()},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "vellum: %v\n", err)
		os.Exit(1)
	}
}

// app 是子命令共享的依赖。
type app struct {
	cfg *config.Config
	log *zap.Logger
	svc *export.Service
}

// setup 读取配置并构建日志与导出服务。
func setup(cmd *cli.Command) (*app, error) {
	cfg := config.NewDefaultConfig()
	if err := config.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	log, err := logger.New(logger.Options{Level: cfg.App.LogLevel, File: cfg.App.LogFile})
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	svc, err := newService(cfg, log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, svc: svc}, nil
}

func newService(cfg *config.Config, log *zap.Logger) (*export.Service, error) {
	page, err := cfg.PageGeometry()
	if err != nil {
		return nil, fmt.Errorf("解析页面配置失败: %w", err)
	}
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Creator: "vellum"})
	return export.NewService(r, export.Options{
		Page:              page,
		Title:             cfg.Document.Title,
		AttributionFormat: cfg.Document.AttributionFormat,
		FooterFormat:      cfg.Document.FooterFormat,
		Footer:            cfg.Document.Footer(),
		TimestampLayout:   cfg.Document.TimestampLayout,
		Logger:            log,
	}), nil
}
