package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	contentfs "redimaq/content"
	"redimaq/internal/serve"
	"redimaq/themes"
)

var (
	serveAddr string
	serveDev  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site with live carousels, search and overlays",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appCfg
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}
		if cmd.Flags().Changed("dev") {
			cfg.Server.Dev = serveDev
		}

		theme, err := themes.Open(cfg.Build.ThemeDir, cfg.Site.Theme)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := serve.New(ctx, cfg, theme, contentfs.Open(cfg.Build.ContentDir))
		if err != nil {
			return fmt.Errorf("serve init error: %w", err)
		}
		defer s.Close()

		return s.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides server.addr")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "reload browsers when posts change")
}
