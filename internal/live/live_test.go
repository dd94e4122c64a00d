package live

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"redimaq/internal/app"
	"redimaq/internal/blog"
	"redimaq/internal/carousel"
	"redimaq/internal/domain/config"
	"redimaq/internal/domain/content"
	"redimaq/internal/render"
	"redimaq/themes"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testSite(t *testing.T) *app.Site {
	t.Helper()
	posts := []content.Post{
		{ID: 1, Slug: "dicas-ergonomia-home-office", Title: "5 Dicas de Ergonomia", Date: "2024-07-28", Category: "Ergonomia", Content: "## Postura correta\n\nSente direito."},
		{ID: 2, Slug: "escolha-cadeira-ideal", Title: "A Escolha da Cadeira Ideal", Date: "2024-07-15", Category: "Móveis", Content: "Corpo dois."},
		{ID: 3, Slug: "organizacao-e-produtividade", Title: "Organização e Produtividade", Date: "2024-06-30", Category: "Organização", Content: "Corpo três."},
	}
	s, err := app.NewSite(config.Default(), content.NewCatalog(posts), nil, render.NewMarkdownRenderer())
	require.NoError(t, err)
	s.Now = func() time.Time { return epoch }
	return s
}

func testRenderer(t *testing.T) render.Renderer {
	t.Helper()
	theme, err := themes.Open("", "redimaq")
	require.NoError(t, err)
	r, err := render.NewTemplateRenderer(theme)
	require.NoError(t, err)
	return r
}

type tickLog struct{ ticks []Tick }

func (l *tickLog) fire(t Tick) { l.ticks = append(l.ticks, t) }

func newHome(t *testing.T) (*carouselView, *carousel.ManualScheduler, *tickLog) {
	t.Helper()
	sched := carousel.NewManualScheduler(epoch)
	log := &tickLog{}
	v, err := newView(ViewHome, nil, viewEnv{site: testSite(t), sched: sched, fire: log.fire})
	require.NoError(t, err)
	return v.(*carouselView), sched, log
}

func TestUnknownView(t *testing.T) {
	_, err := newView("admin", nil, viewEnv{site: testSite(t), sched: carousel.NewManualScheduler(epoch), fire: func(Tick) {}})
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestHeroAdvancesOnTick(t *testing.T) {
	v, sched, log := newHome(t)

	sched.Advance(4999 * time.Millisecond)
	assert.Empty(t, log.ticks)

	sched.Advance(time.Millisecond)
	require.Len(t, log.ticks, 1)
	assert.Equal(t, []string{app.RegionHero}, v.Tick(log.ticks[0]))
	assert.Equal(t, 1, v.ctl.Index())

	sched.Advance(5 * time.Second)
	require.Len(t, log.ticks, 2)
	v.Tick(log.ticks[1])
	assert.Equal(t, 0, v.ctl.Index(), "wraps")
}

func TestHeroHoverPausesAndStaleTickIgnored(t *testing.T) {
	v, sched, log := newHome(t)

	sched.Advance(3 * time.Second)
	assert.Equal(t, []string{app.RegionHero}, v.Handle(Event{Type: EventPointerEnter, Target: app.RegionHero}))
	assert.Nil(t, v.Handle(Event{Type: EventPointerEnter, Target: app.RegionHero}), "already paused")
	assert.Equal(t, 0, sched.Pending())

	sched.Advance(time.Minute)
	assert.Empty(t, log.ticks)

	assert.Equal(t, []string{app.RegionHero}, v.Handle(Event{Type: EventPointerLeave, Target: app.RegionHero}))
	sched.Advance(4 * time.Second)
	assert.Empty(t, log.ticks, "resume restarts the full interval")
	sched.Advance(time.Second)
	require.Len(t, log.ticks, 1)

	// a tick from before a pause must not advance
	stale := log.ticks[0]
	v.Handle(Event{Type: EventPointerEnter, Target: app.RegionHero})
	assert.Nil(t, v.Tick(stale))
	assert.Equal(t, 0, v.ctl.Index())
}

func TestHeroClicks(t *testing.T) {
	v, _, _ := newHome(t)
	tests := []struct {
		name  string
		ev    Event
		dirty bool
		index int
	}{
		{"next", Event{Type: EventClick, Target: "hero-next"}, true, 1},
		{"next wraps", Event{Type: EventClick, Target: "hero-next"}, true, 0},
		{"previous wraps", Event{Type: EventClick, Target: "hero-prev"}, true, 1},
		{"dot", Event{Type: EventClick, Target: "hero-dot-0", Value: "0"}, true, 0},
		{"dot out of range", Event{Type: EventClick, Target: "hero-dot-7", Value: "7"}, false, 0},
		{"dot negative", Event{Type: EventClick, Target: "hero-dot-x", Value: "-1"}, false, 0},
		{"dot garbage", Event{Type: EventClick, Target: "hero-dot-x", Value: "x"}, false, 0},
		{"other target", Event{Type: EventClick, Target: "sort-toggle"}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Handle(tt.ev)
			assert.Equal(t, tt.dirty, len(got) > 0)
			assert.Equal(t, tt.index, v.ctl.Index())
		})
	}
}

func TestRepairIgnoresClicksAndCloses(t *testing.T) {
	sched := carousel.NewManualScheduler(epoch)
	log := &tickLog{}
	view, err := newView(ViewRepair, nil, viewEnv{site: testSite(t), sched: sched, fire: log.fire})
	require.NoError(t, err)
	v := view.(*carouselView)

	assert.Nil(t, v.Handle(Event{Type: EventClick, Target: "compare-next"}))
	sched.Advance(3 * time.Second)
	require.Len(t, log.ticks, 1)
	v.Tick(log.ticks[0])

	data, ok := v.Region(app.RegionCompare)
	require.True(t, ok)
	cv := data.(render.CarouselView)
	assert.Equal(t, 1, cv.Index)
	assert.Equal(t, "Depois", cv.Slides[1].Label)

	v.Close()
	assert.Equal(t, 0, sched.Pending())
	assert.False(t, v.ctl.Armed())
}

func newBlog(t *testing.T, raw string) *blogView {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return newBlogView(testSite(t), v)
}

func TestBlogRestoresFromQuery(t *testing.T) {
	b := newBlog(t, "q=cadeira&sort=oldest&post=escolha-cadeira-ideal&menu=open")
	assert.True(t, b.sort.IsOpen())
	assert.True(t, b.modal.IsOpen())
	assert.Equal(t, "cadeira", b.query.Search)
	assert.Equal(t, blog.SortOldest, b.query.Sort)
	assert.Equal(t, 2, b.doc.Len())

	b = newBlog(t, "post=nao-existe")
	assert.False(t, b.modal.IsOpen())
	assert.Equal(t, 0, b.doc.Len())
}

func TestBlogSortMenu(t *testing.T) {
	b := newBlog(t, "")

	assert.Equal(t, []string{app.RegionSortMenu}, b.Handle(Event{Type: EventClick, Target: "sort-toggle"}))
	assert.True(t, b.sort.IsOpen())

	// pointer-down inside the menu keeps it open
	assert.Empty(t, b.Handle(Event{Type: EventPointerDown, Target: "sort-oldest"}))
	assert.True(t, b.sort.IsOpen())

	got := b.Handle(Event{Type: EventClick, Target: "sort-oldest"})
	assert.Equal(t, []string{app.RegionSortMenu, app.RegionPostList}, got)
	assert.Equal(t, blog.SortOldest, b.query.Sort)
	assert.False(t, b.sort.IsOpen())
	assert.Equal(t, 0, b.doc.Len())

	b.Handle(Event{Type: EventClick, Target: "sort-toggle"})
	assert.Equal(t, []string{app.RegionSortMenu}, b.Handle(Event{Type: EventPointerDown, Target: "search"}))
	assert.False(t, b.sort.IsOpen())

	assert.Nil(t, b.Handle(Event{Type: EventClick, Target: "sort-options"}))
}

func TestBlogSearch(t *testing.T) {
	b := newBlog(t, "")
	assert.Equal(t, []string{app.RegionPostList}, b.Handle(Event{Type: EventInput, Target: "search", Value: "ORGANIZA"}))
	assert.Empty(t, b.Handle(Event{Type: EventInput, Target: "search", Value: "ORGANIZA"}))

	data, ok := b.Region(app.RegionPostList)
	require.True(t, ok)
	page := data.(render.BlogPage)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "organizacao-e-produtividade", page.Posts[0].Slug)

	b.Handle(Event{Type: EventInput, Target: "search", Value: "zzz"})
	data, _ = b.Region(app.RegionPostList)
	assert.True(t, data.(render.BlogPage).Empty())
}

func TestBlogOverlay(t *testing.T) {
	b := newBlog(t, "")

	got := b.Handle(Event{Type: EventClick, Target: "post-card-dicas-ergonomia-home-office", Value: "dicas-ergonomia-home-office"})
	assert.Equal(t, []string{app.RegionPostOverlay}, got)
	require.True(t, b.modal.IsOpen())

	data, _ := b.Region(app.RegionPostOverlay)
	sel := data.(render.BlogPage).Selected
	require.NotNil(t, sel)
	assert.Equal(t, "5 Dicas de Ergonomia", sel.Title)

	for _, target := range []string{"post-panel", "post-body", "post-title", "md-postura-correta"} {
		assert.Empty(t, b.Handle(Event{Type: EventPointerDown, Target: target}), target)
		assert.True(t, b.modal.IsOpen(), target)
	}

	assert.Equal(t, []string{app.RegionPostOverlay}, b.Handle(Event{Type: EventPointerDown, Target: "post-close"}))
	assert.False(t, b.modal.IsOpen())
	_, ok := b.query.Selected()
	assert.False(t, ok)
	assert.Equal(t, 0, b.doc.Len())

	b.Handle(Event{Type: EventClick, Target: "post-card-escolha-cadeira-ideal", Value: "escolha-cadeira-ideal"})
	assert.Equal(t, []string{app.RegionPostOverlay}, b.Handle(Event{Type: EventPointerDown, Target: "post-backdrop"}))
	assert.False(t, b.modal.IsOpen())

	assert.Nil(t, b.Handle(Event{Type: EventClick, Target: "post-card-x", Value: "x"}))
}

func TestBlogOverlayBodyIDsStayInside(t *testing.T) {
	posts := []content.Post{
		{ID: 1, Slug: "ids", Title: "Ids", Date: "2024-07-28", Content: "## Search\n\n<p id=\"nota\">nota</p>"},
	}
	s, err := app.NewSite(config.Default(), content.NewCatalog(posts), nil, render.NewMarkdownRenderer())
	require.NoError(t, err)
	b := newBlogView(s, url.Values{"post": {"ids"}})
	require.True(t, b.modal.IsOpen())

	data, _ := b.Region(app.RegionPostOverlay)
	body := string(data.(render.BlogPage).Selected.HTML)
	assert.Contains(t, body, `id="md-search"`)
	assert.Contains(t, body, `id="md-nota"`)
	assert.NotContains(t, body, `id="search"`)

	for _, target := range []string{"md-search", "md-nota", "post-title"} {
		assert.Empty(t, b.Handle(Event{Type: EventPointerDown, Target: target}), target)
		assert.True(t, b.modal.IsOpen(), target)
	}

	// the page's own search box is still outside the panel
	assert.Equal(t, []string{app.RegionPostOverlay}, b.Handle(Event{Type: EventPointerDown, Target: "search"}))
	assert.False(t, b.modal.IsOpen())
}

func TestBlogCloseReleasesListeners(t *testing.T) {
	b := newBlog(t, "post=escolha-cadeira-ideal&menu=open")
	require.Equal(t, 2, b.doc.Len())
	b.Close()
	assert.Equal(t, 0, b.doc.Len())
	assert.False(t, b.sort.IsOpen())
	assert.False(t, b.modal.IsOpen())
}

func TestSessionPushesRegions(t *testing.T) {
	sched := carousel.NewManualScheduler(epoch)
	s, err := NewSession(url.Values{"view": {ViewHome}}, testSite(t), testRenderer(t), sched)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)

	pushes := make(chan Push, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = s.Run(ctx, func(_ context.Context, p Push) error {
			pushes <- p
			return nil
		})
	}()

	next := func() Push {
		t.Helper()
		select {
		case p := <-pushes:
			return p
		case <-time.After(2 * time.Second):
			t.Fatal("no push")
			return Push{}
		}
	}

	sched.Advance(5 * time.Second)
	p := next()
	assert.Equal(t, app.RegionHero, p.Region)
	assert.Contains(t, p.HTML, `id="hero"`)
	assert.Contains(t, p.HTML, `id="hero-dot-1"`)

	require.True(t, s.Deliver(ctx, Event{Type: EventPointerEnter, Target: app.RegionHero}))
	p = next()
	assert.Contains(t, p.HTML, `aria-live="off"`)

	cancel()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
	assert.Equal(t, 0, sched.Pending())
	assert.True(t, s.view.(*carouselView).ctl.Closed())
	assert.False(t, s.Deliver(context.Background(), Event{Type: EventClick}))
}

func TestSessionCompareProgressAnimates(t *testing.T) {
	sched := carousel.NewManualScheduler(epoch)
	s, err := NewSession(url.Values{"view": {ViewRepair}}, testSite(t), testRenderer(t), sched)
	require.NoError(t, err)

	pushes := make(chan Push, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = s.Run(ctx, func(_ context.Context, p Push) error {
			pushes <- p
			return nil
		})
	}()

	next := func() Push {
		t.Helper()
		select {
		case p := <-pushes:
			return p
		case <-time.After(2 * time.Second):
			t.Fatal("no push")
			return Push{}
		}
	}

	sched.Advance(3 * time.Second)
	p := next()
	assert.Equal(t, app.RegionCompare, p.Region)
	assert.Contains(t, p.HTML, `class="progress-fill running"`)
	assert.Contains(t, p.HTML, "animation-duration: 3000ms")

	sched.Advance(1500 * time.Millisecond)
	require.True(t, s.Deliver(ctx, Event{Type: EventPointerEnter, Target: app.RegionCompare}))
	p = next()
	assert.Contains(t, p.HTML, `class="progress-fill paused"`)
	assert.NotContains(t, p.HTML, "animation-duration")

	require.True(t, s.Deliver(ctx, Event{Type: EventPointerLeave, Target: app.RegionCompare}))
	p = next()
	assert.Contains(t, p.HTML, `class="progress-fill running"`)
	assert.Contains(t, p.HTML, "animation-delay: -0ms")
}

func TestNewSessionUnknownView(t *testing.T) {
	_, err := NewSession(url.Values{}, testSite(t), testRenderer(t), carousel.NewManualScheduler(epoch))
	assert.ErrorIs(t, err, ErrUnknownView)
}
