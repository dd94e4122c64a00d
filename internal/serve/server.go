package serve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"

	"redimaq/internal/app"
	"redimaq/internal/blog"
	"redimaq/internal/carousel"
	"redimaq/internal/domain/config"
	"redimaq/internal/domain/site"
	"redimaq/internal/index"
	"redimaq/internal/live"
	"redimaq/internal/render"
)

const (
	rebuildDebounce = 200 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg config.Config

	idx    *index.Store
	md     *render.MarkdownRenderer
	tpl    render.Renderer
	static fs.FS
	src    fs.FS
	sched  carousel.Scheduler

	mu   sync.RWMutex
	site *app.Site

	limiter  *ipLimiter
	upgrader websocket.Upgrader
	liveCtx  context.Context
	stopLive context.CancelFunc

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

// New opens the index at cfg.Server.IndexPath and loads the posts in src.
// theme is a theme root holding templates/ and static/.
func New(ctx context.Context, cfg config.Config, theme, src fs.FS) (*Server, error) {
	tpl, err := render.NewTemplateRenderer(theme)
	if err != nil {
		return nil, fmt.Errorf("serve: failed to create template renderer: %w", err)
	}
	static, err := fs.Sub(theme, "static")
	if err != nil {
		return nil, fmt.Errorf("serve: theme static dir: %w", err)
	}
	st, err := index.Open(index.OpenOptions{Path: cfg.Server.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		idx:      st,
		md:       render.NewMarkdownRenderer(),
		tpl:      tpl,
		static:   static,
		src:      src,
		sched:    carousel.RealScheduler,
		limiter:  newIPLimiter(cfg.Server.LiveRate, cfg.Server.LiveBurst),
		sseConns: make(map[chan string]struct{}),
	}
	s.liveCtx, s.stopLive = context.WithCancel(context.Background())
	if err := s.Rebuild(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close ends every live session and releases the index.
func (s *Server) Close() error {
	s.stopLive()
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

func (s *Server) current() *app.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc(site.PathRepair, s.handleRepair)
	mux.HandleFunc(site.PathRepair+"/", s.handleRepair)
	mux.HandleFunc(site.PathBlog, s.handleBlog)
	mux.HandleFunc(site.PathBlog+"/", s.handleBlog)
	mux.HandleFunc(site.PathPost, s.handlePost)
	mux.HandleFunc(site.PathLive, s.handleLive)
	mux.HandleFunc("/healthz", s.handleHealth)

	if s.cfg.Server.Dev {
		mux.HandleFunc("/dev/events", s.handleSSE)
	}

	fileServer := http.FileServer(http.FS(s.static))
	mux.Handle("/css/", fileServer)
	mux.Handle("/js/", fileServer)
	mux.Handle("/images/", fileServer)
	mux.Handle("/favicon.ico", fileServer)

	return mux
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.cfg.Server.Dev && s.cfg.Build.ContentDir != "" {
		// 启动文件监控
		if err := s.startWatch(ctx); err != nil {
			return err
		}
	}
	go s.limiter.cleanup(ctx)

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 支持 ctx 取消
	go func() {
		<-ctx.Done()
		s.stopLive()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Printf("[serve] listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Rebuild reloads the posts and swaps the site in one step. Open live
// sessions keep the snapshot they started with.
func (s *Server) Rebuild(ctx context.Context) error {
	log.Printf("[serve] ingest posts ...")
	cat, warns, err := app.LoadCatalog(ctx, s.src, s.idx, s.md)
	for _, w := range warns {
		log.Printf("[warn] %s", w)
	}
	if err != nil {
		return fmt.Errorf("serve: load posts: %w", err)
	}
	st, err := app.NewSite(s.cfg, cat, s.idx, s.md)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	s.mu.Lock()
	s.site = st
	s.mu.Unlock()

	log.Printf("[serve] rebuild complete, %d posts", cat.Len())
	s.broadcastSSE("reload")
	return nil
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		err = filepath.WalkDir(s.cfg.Build.ContentDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.Add(path)
			}
			return nil
		})
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	log.Printf("[serve] watching %s for changes ...", s.cfg.Build.ContentDir)
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				// 新建的子目录也要监控
				_ = s.watcher.Add(ev.Name)
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Reset(rebuildDebounce)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[warn] watcher error: %v", err)
		case <-debounce.C:
			ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := s.Rebuild(ctx2); err != nil {
				log.Printf("[serve] rebuild error: %v", err)
			}
			cancel()
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != site.PathHome && r.URL.Path != "/index.html" {
		s.handleNotFound(w, r)
		return
	}
	htmlBytes, err := s.tpl.RenderHome(r.Context(), s.current().InitialHome())
	if err != nil {
		s.fail(w, "render home", err)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSuffix(r.URL.Path, "/") != site.PathRepair {
		s.handleNotFound(w, r)
		return
	}
	htmlBytes, err := s.tpl.RenderRepair(r.Context(), s.current().InitialRepair())
	if err != nil {
		s.fail(w, "render repair", err)
		return
	}
	writeHTML(w, htmlBytes)
}

// 博客列表：/redimaqblog?q=&sort=&post=&menu=open
func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSuffix(r.URL.Path, "/") != site.PathBlog {
		s.handleNotFound(w, r)
		return
	}
	st := s.current()
	v := r.URL.Query()
	q := blog.QueryFromValues(v, st.Catalog())
	page := st.Blog(q, v.Get(app.ParamSortMenu) == "open")
	htmlBytes, err := s.tpl.RenderBlog(r.Context(), page)
	if err != nil {
		s.fail(w, "render blog", err)
		return
	}
	writeHTML(w, htmlBytes)
}

// 文章页：/redimaqblog/post/<slug>/
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, site.PathPost), "/")
	if slug == "" || strings.Contains(slug, "/") {
		s.handleNotFound(w, r)
		return
	}
	page, err := s.current().Post(slug)
	if errors.Is(err, index.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.fail(w, "post page", err)
		return
	}
	htmlBytes, err := s.tpl.RenderPost(r.Context(), page)
	if err != nil {
		s.fail(w, "render post", err)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(clientIP(r)) {
		http.Error(w, "too many live connections", http.StatusTooManyRequests)
		return
	}
	sess, err := live.NewSession(r.URL.Query(), s.current(), s.tpl, s.sched)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已经写好了错误响应
		log.Printf("[live] upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(s.liveCtx, cancel)
	defer stop()

	log.Printf("[live] %s open view=%s from %s", sess.ID, sess.Name, clientIP(r))
	if err := live.ServeConn(ctx, conn, sess); err != nil {
		log.Printf("[live] %s: %v", sess.ID, err)
	}
	log.Printf("[live] %s closed", sess.ID)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	htmlBytes, err := s.tpl.RenderNotFound(r.Context(), s.current().NotFound(r.URL.Path))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(htmlBytes)
}

func (s *Server) fail(w http.ResponseWriter, what string, err error) {
	log.Printf("[serve] %s error: %v", what, err)
	http.Error(w, what+" error", http.StatusInternalServerError)
}

// ===================== 工具 =====================

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
