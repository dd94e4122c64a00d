package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"redimaq/internal/domain/config"
	"redimaq/themes"
)

const post = `---
id: 1
title: Dicas de Ergonomia
slug: dicas-ergonomia
excerpt: Trabalhar em casa
date: 2024-07-28
category: Ergonomia
---
Corpo do post.
`

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	theme, err := themes.Open("", "redimaq")
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Build.PublicDir = filepath.Join(t.TempDir(), "public")
	cfg.Build.Now = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	cfg.Server.IndexPath = filepath.Join(t.TempDir(), "index.db")
	return &Builder{
		Cfg:   cfg,
		Theme: theme,
		Src:   fstest.MapFS{"posts/a.md": {Data: []byte(post)}},
	}
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err, rel)
	return string(data)
}

func TestRunWritesSite(t *testing.T) {
	b := newBuilder(t)
	res, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 1, res.Posts)
	assert.Equal(t, 5, res.Pages)
	assert.Equal(t, 2, res.Assets)

	out := b.Cfg.Build.PublicDir
	for _, rel := range []string{
		"index.html",
		"consertodecadeiras/index.html",
		"redimaqblog/index.html",
		"redimaqblog/post/dicas-ergonomia/index.html",
		"404.html",
		"css/site.css",
		"js/site.js",
		ManifestName,
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}

	blogPage := read(t, out, "redimaqblog/index.html")
	assert.NotContains(t, blogPage, "data-live-url")
	assert.Contains(t, blogPage, `href="/redimaqblog/post/dicas-ergonomia/"`)
	assert.Contains(t, blogPage, `href="#sort-menu"`)

	assert.Contains(t, read(t, out, "404.html"), "&copy; 2025")
	assert.Contains(t, read(t, out, "redimaqblog/post/dicas-ergonomia/index.html"), "Corpo do post.")
}

func TestRunSkipsWhenUnchanged(t *testing.T) {
	b := newBuilder(t)
	first, err := b.Run(context.Background())
	require.NoError(t, err)

	again, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Equal(t, first.Fingerprint, again.Fingerprint)

	b.Force = true
	forced, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, forced.Skipped)

	b.Force = false
	b.Src = fstest.MapFS{"posts/a.md": {Data: []byte(post + "\nMais texto.\n")}}
	changed, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, changed.Skipped)
	assert.NotEqual(t, first.Fingerprint.ContentHash, changed.Fingerprint.ContentHash)
}

func TestRunYearChangesFingerprint(t *testing.T) {
	b := newBuilder(t)
	first, err := b.Run(context.Background())
	require.NoError(t, err)

	b.Cfg.Build.Now = b.Cfg.Build.Now.AddDate(1, 0, 0)
	next, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, next.Skipped)
	assert.NotEqual(t, first.Fingerprint.ConfigHash, next.Fingerprint.ConfigHash)
}
