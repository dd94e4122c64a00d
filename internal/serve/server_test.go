package serve

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"redimaq/internal/domain/config"
	"redimaq/internal/live"
	"redimaq/themes"
)

const postA = `---
id: 1
title: Dicas de Ergonomia
slug: dicas-ergonomia
excerpt: Trabalhar em casa
author: Ana Silva
date: 2024-07-28
category: Ergonomia
image: /images/seção_1.webp
---
## Postura

Corpo do post.
`

const postB = `---
id: 2
title: A Cadeira Ideal
slug: cadeira-ideal
author: Carlos Pereira
date: 2024-07-15
category: Ergonomia
---
Uma boa cadeira faz diferença.
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.IndexPath = filepath.Join(t.TempDir(), "index.db")
	return cfg
}

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	theme, err := themes.Open("", "redimaq")
	require.NoError(t, err)
	src := fstest.MapFS{
		"posts/a.md": {Data: []byte(postA)},
		"posts/b.md": {Data: []byte(postB)},
	}
	s, err := New(context.Background(), cfg, theme, src)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPages(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	tests := []struct {
		name   string
		target string
		code   int
		want   []string
	}{
		{"home", "/", 200, []string{`data-live-url="/live?view=home"`, `id="hero"`}},
		{"repair", "/consertodecadeiras", 200, []string{`id="compare"`, "Conserto de Cadeiras"}},
		{"repair slash", "/consertodecadeiras/", 200, []string{`id="compare"`}},
		{"blog", "/redimaqblog", 200, []string{`id="post-card-dicas-ergonomia"`, `id="post-card-cadeira-ideal"`}},
		{"blog search miss", "/redimaqblog?q=zzz", 200, []string{"Nenhum post encontrado"}},
		{"blog selected", "/redimaqblog?post=cadeira-ideal", 200, []string{`id="post-panel"`, "Uma boa cadeira"}},
		{"blog menu open", "/redimaqblog?menu=open", 200, []string{`id="sort-oldest"`}},
		{"post page", "/redimaqblog/post/dicas-ergonomia/", 200, []string{"Dicas de Ergonomia", `id="md-postura`}},
		{"post missing", "/redimaqblog/post/nao-existe/", 404, []string{"/redimaqblog/post/nao-existe/"}},
		{"unknown", "/contato", 404, []string{"/contato"}},
		{"health", "/healthz", 200, []string{"ok"}},
		{"css", "/css/site.css", 200, nil},
		{"js", "/js/site.js", 200, []string{"data-live-url"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.code, rec.Code)
			for _, w := range tt.want {
				assert.Contains(t, rec.Body.String(), w)
			}
		})
	}
}

func TestDevEventsOnlyInDev(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()
	assert.Equal(t, http.StatusNotFound, get(t, h, "/dev/events").Code)
	assert.NotContains(t, get(t, h, "/").Body.String(), "data-dev-events")
}

func TestDevEventsStream(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Dev = true
	s := newTestServer(t, cfg)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/dev/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	br := bufio.NewReader(resp.Body)
	line, err := br.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "data: hello\n", line)

	require.NoError(t, s.Rebuild(context.Background()))
	_, _ = br.ReadString('\n')
	line, err = br.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "data: reload\n", line)
}

func TestLiveRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.LiveRate = 1
	cfg.Server.LiveBurst = 1
	h := newTestServer(t, cfg).Handler()

	// not a websocket handshake, but it still spends a token
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/live?view=home").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, h, "/live?view=home").Code)
}

func TestLiveUnknownView(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()
	rec := get(t, h, "/live?view=admin")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown view")
}

func dialLive(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live?" + query
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readPush(t *testing.T, conn *websocket.Conn) live.Push {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var p live.Push
	require.NoError(t, conn.ReadJSON(&p))
	return p
}

func TestLiveBlogSession(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, testConfig(t)).Handler())
	defer ts.Close()
	conn := dialLive(t, ts, "view=blog")

	require.NoError(t, conn.WriteJSON(live.Event{Type: live.EventClick, Target: "sort-toggle"}))
	p := readPush(t, conn)
	assert.Equal(t, "sort-menu", p.Region)
	assert.Contains(t, p.HTML, `id="sort-oldest"`)

	require.NoError(t, conn.WriteJSON(live.Event{Type: live.EventInput, Target: "search", Value: "cadeira"}))
	p = readPush(t, conn)
	assert.Equal(t, "post-list", p.Region)
	assert.Contains(t, p.HTML, "post-card-cadeira-ideal")
	assert.NotContains(t, p.HTML, "post-card-dicas-ergonomia")

	require.NoError(t, conn.WriteJSON(live.Event{Type: live.EventClick, Target: "post-card-cadeira-ideal", Value: "cadeira-ideal"}))
	p = readPush(t, conn)
	assert.Equal(t, "post-overlay", p.Region)
	assert.Contains(t, p.HTML, "Uma boa cadeira")
}

func TestLiveHeroHover(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, testConfig(t)).Handler())
	defer ts.Close()
	conn := dialLive(t, ts, "view=home")

	require.NoError(t, conn.WriteJSON(live.Event{Type: live.EventPointerEnter, Target: "hero"}))
	p := readPush(t, conn)
	assert.Equal(t, "hero", p.Region)
	assert.Contains(t, p.HTML, `aria-live="off"`)

	require.NoError(t, conn.WriteJSON(live.Event{Type: live.EventClick, Target: "hero-dot-1", Value: "1"}))
	p = readPush(t, conn)
	assert.Contains(t, p.HTML, `id="hero-dot-1" data-live-click data-value="1" role="tab" class="dot active"`)
}

func TestLimiterSweep(t *testing.T) {
	l := newIPLimiter(60, 2)
	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))
	require.Equal(t, 2, l.size())

	l.sweep(time.Now().Add(limiterIdle + time.Minute))
	assert.Equal(t, 0, l.size())
}

func TestWatchRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte(postA), 0o644))

	cfg := testConfig(t)
	cfg.Server.Dev = true
	cfg.Build.ContentDir = dir
	theme, err := themes.Open("", "redimaq")
	require.NoError(t, err)
	s, err := New(context.Background(), cfg, theme, os.DirFS(dir))
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.startWatch(ctx))
	assert.Equal(t, 1, s.current().Catalog().Len())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte(postB), 0o644))
	assert.Eventually(t, func() bool {
		return s.current().Catalog().Len() == 2
	}, 5*time.Second, 50*time.Millisecond)

	body := get(t, s.Handler(), "/redimaqblog").Body.String()
	assert.Contains(t, body, "post-card-cadeira-ideal")
}

func TestHealthBodyIsPlain(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()
	rec := get(t, h, "/healthz")
	b, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "ok", string(b))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
}
