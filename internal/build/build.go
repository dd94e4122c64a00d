// Package build exports the site as plain files for a static host.
package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"redimaq/internal/app"
	"redimaq/internal/blog"
	dbuild "redimaq/internal/domain/build"
	"redimaq/internal/domain/config"
	"redimaq/internal/domain/site"
	"redimaq/internal/index"
	"redimaq/internal/ingest"
	"redimaq/internal/render"
)

// ManifestName is written into the public dir after a successful export.
const ManifestName = ".redimaq-build.yaml"

// rendererVersion changes whenever markdown or template output changes for
// the same inputs.
const rendererVersion = "goldmark-gfm/bluemonday-ugc/1"

type Builder struct {
	Cfg   config.Config
	Theme fs.FS
	Src   fs.FS
	// Force writes even when the manifest says nothing changed.
	Force bool
}

type Result struct {
	Posts       int
	Pages       int
	Assets      int
	Skipped     bool
	Warnings    []ingest.Warning
	Fingerprint dbuild.Fingerprint
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	st, err := index.Open(index.OpenOptions{Path: b.Cfg.Server.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	md := render.NewMarkdownRenderer()
	cat, warns, err := app.LoadCatalog(ctx, b.Src, st, md)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	tpl, err := render.NewTemplateRenderer(b.Theme)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}

	fp, err := b.fingerprint(st)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}
	res := &Result{Posts: cat.Len(), Warnings: warns, Fingerprint: fp}

	outDir := b.Cfg.Build.PublicDir
	if !b.Force {
		if prev, err := readManifest(outDir); err == nil && prev.RenderHash == fp.RenderHash {
			log.Printf("[build] %s is up to date", outDir)
			res.Skipped = true
			return res, nil
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	s, err := app.NewSite(b.Cfg, cat, st, md)
	if err != nil {
		return nil, err
	}
	s.Static = true
	now := b.Cfg.Build.Now
	if now.IsZero() {
		now = time.Now()
	}
	s.Now = func() time.Time { return now }

	for _, r := range app.Routes(cat) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		htmlBytes, err := renderRoute(ctx, s, tpl, r)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", r, err)
		}
		if err := writeFile(outDir, filepath.FromSlash(r.OutPath), htmlBytes); err != nil {
			return nil, err
		}
		res.Pages++
	}

	n, err := copyStaticAssets(b.Theme, outDir)
	if err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}
	res.Assets = n

	if err := writeManifest(outDir, fp); err != nil {
		return nil, err
	}
	log.Printf("[build] wrote %d pages and %d assets to %s", res.Pages, res.Assets, outDir)
	return res, nil
}

func renderRoute(ctx context.Context, s *app.Site, tpl render.Renderer, r site.Route) ([]byte, error) {
	switch r.Kind {
	case site.RouteHome:
		return tpl.RenderHome(ctx, s.InitialHome())
	case site.RouteRepair:
		return tpl.RenderRepair(ctx, s.InitialRepair())
	case site.RouteBlog:
		return tpl.RenderBlog(ctx, s.Blog(blog.NewQuery(), false))
	case site.RoutePost:
		page, err := s.Post(r.Slug)
		if err != nil {
			return nil, err
		}
		return tpl.RenderPost(ctx, page)
	case site.RouteNotFound:
		return tpl.RenderNotFound(ctx, s.NotFound(""))
	}
	return nil, fmt.Errorf("unknown route kind %q", r.Kind)
}

func (b *Builder) fingerprint(st *index.Store) (dbuild.Fingerprint, error) {
	var fp dbuild.Fingerprint
	var err error
	if fp.ContentHash, err = st.Fingerprint(); err != nil {
		return fp, err
	}
	if fp.ThemeHash, err = dbuild.HashFS(b.Theme); err != nil {
		return fp, err
	}
	// 页脚年份也算输入
	cfgInput := struct {
		Config config.Config `yaml:"config"`
		Year   int           `yaml:"year"`
	}{b.Cfg, b.Cfg.Build.Now.Year()}
	if fp.ConfigHash, err = dbuild.HashValue(cfgInput); err != nil {
		return fp, err
	}
	fp.RendererHash = rendererVersion
	fp.ComputeRenderHash()
	return fp, nil
}

func readManifest(outDir string) (dbuild.Fingerprint, error) {
	data, err := os.ReadFile(filepath.Join(outDir, ManifestName))
	if err != nil {
		return dbuild.Fingerprint{}, err
	}
	return dbuild.UnmarshalFingerprint(data)
}

func writeManifest(outDir string, fp dbuild.Fingerprint) error {
	data, err := fp.Marshal()
	if err != nil {
		return err
	}
	return writeFile(outDir, ManifestName, data)
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

// copyStaticAssets copies theme/static into outDir and returns the file count.
func copyStaticAssets(theme fs.FS, outDir string) (int, error) {
	static, err := fs.Sub(theme, "static")
	if err != nil {
		return 0, err
	}
	// 如果没有 static 目录就算了
	if _, err := fs.Stat(static, "."); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	n := 0
	err = fs.WalkDir(static, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		in, err := fs.ReadFile(static, p)
		if err != nil {
			return err
		}
		n++
		return writeFile(outDir, filepath.FromSlash(p), in)
	})
	return n, err
}
