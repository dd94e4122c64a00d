package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	contentfs "redimaq/content"
	"redimaq/internal/build"
	"redimaq/themes"
)

var (
	buildOut   string
	buildForce bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the site as static files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appCfg
		if buildOut != "" {
			cfg.Build.PublicDir = buildOut
		}
		theme, err := themes.Open(cfg.Build.ThemeDir, cfg.Site.Theme)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		b := &build.Builder{
			Cfg:   cfg,
			Theme: theme,
			Src:   contentfs.Open(cfg.Build.ContentDir),
			Force: buildForce,
		}
		res, err := b.Run(ctx)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			log.Printf("[warn] %s", w)
		}
		if !res.Skipped {
			log.Printf("[build] %d posts", res.Posts)
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output directory, overrides build.public_dir")
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "write even when nothing changed")
}
