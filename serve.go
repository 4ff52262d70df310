package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/ByLCY/vellum/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "启动 HTTP 导出服务",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "监听地址（默认取配置 app.http.port）", Sources: cli.EnvVars("VELLUM_ADDR")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			addr := cmd.String("addr")
			if addr == "" {
				addr = a.cfg.App.HTTP.Address()
			}
			return server.Run(ctx, addr, server.NewRouter(a.svc, a.log), a.log)
		},
	}
}
