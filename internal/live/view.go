package live

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"redimaq/internal/app"
	"redimaq/internal/blog"
	"redimaq/internal/carousel"
	"redimaq/internal/render"
	"redimaq/internal/ui"
)

var ErrUnknownView = errors.New("live: unknown view")

// View names accepted in the ?view= parameter.
const (
	ViewHome   = "home"
	ViewRepair = "repair"
	ViewBlog   = "blog"
)

// View is one page's interactive state. All methods are called from the
// session's event loop.
type View interface {
	// Handle applies a client event and returns the regions to re-render.
	Handle(ev Event) []string
	// Tick delivers a due carousel timer.
	Tick(t Tick) []string
	// Region returns the template data for region id.
	Region(id string) (any, bool)
	// Close cancels timers and drops every document listener.
	Close()
}

type viewEnv struct {
	site  *app.Site
	sched carousel.Scheduler
	fire  func(Tick)
}

func newView(name string, v url.Values, env viewEnv) (View, error) {
	switch name {
	case ViewHome:
		return newCarouselView(app.RegionHero, app.HeroSlides(), env.site.Cfg.Carousel.HeroInterval, true, env)
	case ViewRepair:
		return newCarouselView(app.RegionCompare, app.CompareSlides(), env.site.Cfg.Carousel.CompareInterval, false, env)
	case ViewBlog:
		return newBlogView(env.site, v), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
}

// carouselView serves a page with one auto-advancing carousel. Hovering the
// region pauses it; leaving resumes with a fresh interval.
type carouselView struct {
	region   string
	controls bool
	ctl      *carousel.Controller
}

func newCarouselView(region string, items []carousel.Item, interval time.Duration, controls bool, env viewEnv) (*carouselView, error) {
	fire := env.fire
	ctl, err := carousel.New(carousel.Options{
		Name:      region,
		Items:     items,
		Interval:  interval,
		Scheduler: env.sched,
		Fire:      func(gen uint64) { fire(Tick{Carousel: region, Gen: gen}) },
	})
	if err != nil {
		return nil, fmt.Errorf("live: %s carousel: %w", region, err)
	}
	return &carouselView{region: region, controls: controls, ctl: ctl}, nil
}

func (v *carouselView) Handle(ev Event) []string {
	var changed bool
	switch ev.Type {
	case EventPointerEnter:
		if ev.Target == v.region {
			changed = v.ctl.Pause()
		}
	case EventPointerLeave:
		if ev.Target == v.region {
			changed = v.ctl.Resume()
		}
	case EventClick:
		if v.controls {
			changed = v.click(ev)
		}
	}
	if !changed {
		return nil
	}
	return []string{v.region}
}

func (v *carouselView) click(ev Event) bool {
	switch ev.Target {
	case v.region + "-prev":
		return v.ctl.Previous()
	case v.region + "-next":
		return v.ctl.Next()
	}
	if !strings.HasPrefix(ev.Target, v.region+"-dot-") {
		return false
	}
	i, err := strconv.Atoi(ev.Value)
	if err != nil || i < 0 || i >= v.ctl.Len() {
		return false
	}
	return v.ctl.GoTo(i)
}

func (v *carouselView) Tick(t Tick) []string {
	if t.Carousel != v.region || !v.ctl.Tick(t.Gen) {
		return nil
	}
	return []string{v.region}
}

func (v *carouselView) Region(id string) (any, bool) {
	if id != v.region {
		return nil, false
	}
	return app.ControllerSnapshot(v.region, v.ctl), true
}

func (v *carouselView) Close() { v.ctl.Close() }

const (
	idSearch     = "search"
	idSortToggle = "sort-toggle"
	idPostPanel  = "post-panel"
	idPostClose  = "post-close"
	idPostBody   = "post-body"
	cardPrefix   = "post-card-"
	sortIDPrefix = "sort-"
)

// blogView owns the listing query, the sort dropdown and the post overlay.
type blogView struct {
	site  *app.Site
	query blog.Query
	doc   *ui.Document
	sort  *ui.Disclosure
	modal *ui.Modal
}

func blogTree(s *app.Site) *ui.Tree {
	t := ui.NewTree().
		Add("page", "").
		Add("search-form", "page").
		Add(idSearch, "search-form").
		Add(app.RegionSortMenu, "page").
		Add(idSortToggle, app.RegionSortMenu).
		Add("sort-options", app.RegionSortMenu).
		Add(app.RegionPostList, "page").
		Add(app.RegionPostOverlay, "").
		Add("post-backdrop", app.RegionPostOverlay).
		Add(idPostPanel, app.RegionPostOverlay).
		Add(idPostClose, idPostPanel).
		Add(idPostBody, idPostPanel).
		Add("post-title", idPostBody)
	for _, o := range blog.SortOptions() {
		t.Add(sortIDPrefix+string(o), "sort-options")
	}
	for _, p := range s.Catalog().Posts() {
		t.Add(cardPrefix+p.Slug, app.RegionPostList)
	}
	return t
}

// target maps an id from inside a post body onto the body itself; those ids
// are user content and never registered in the tree.
func target(id string) string {
	if strings.HasPrefix(id, render.BodyIDPrefix) {
		return idPostBody
	}
	return id
}

func newBlogView(s *app.Site, v url.Values) *blogView {
	b := &blogView{
		site:  s,
		query: blog.QueryFromValues(v, s.Catalog()),
		doc:   ui.NewDocument(blogTree(s)),
	}
	b.sort = ui.NewDisclosure(b.doc, app.RegionSortMenu)
	b.modal = ui.NewModal(b.doc, idPostPanel, idPostClose, b.query.ClearSelection)
	if v.Get(app.ParamSortMenu) == "open" {
		b.sort.Open()
	}
	if _, ok := b.query.Selected(); ok {
		b.modal.Show()
	}
	return b
}

func (b *blogView) Handle(ev Event) []string {
	var d dirty
	switch ev.Type {
	case EventPointerDown:
		sortOpen, modalOpen := b.sort.IsOpen(), b.modal.IsOpen()
		b.doc.Dispatch(target(ev.Target))
		if b.sort.IsOpen() != sortOpen {
			d.add(app.RegionSortMenu)
		}
		if b.modal.IsOpen() != modalOpen {
			d.add(app.RegionPostOverlay)
		}
	case EventInput:
		if ev.Target == idSearch && ev.Value != b.query.Search {
			b.query.Search = ev.Value
			d.add(app.RegionPostList)
		}
	case EventClick:
		d.add(b.click(ev)...)
	}
	return d
}

func (b *blogView) click(ev Event) []string {
	switch {
	case ev.Target == idSortToggle:
		b.sort.Toggle()
		return []string{app.RegionSortMenu}
	case strings.HasPrefix(ev.Target, cardPrefix):
		p, ok := b.site.Catalog().BySlug(ev.Value)
		if !ok {
			return nil
		}
		b.query.Select(p)
		b.modal.Show()
		return []string{app.RegionPostOverlay}
	case strings.HasPrefix(ev.Target, sortIDPrefix):
		o := blog.ParseSortOrder(strings.TrimPrefix(ev.Target, sortIDPrefix))
		if string(o) != strings.TrimPrefix(ev.Target, sortIDPrefix) {
			return nil
		}
		b.query.Sort = o
		b.sort.Close()
		return []string{app.RegionSortMenu, app.RegionPostList}
	}
	return nil
}

func (b *blogView) Tick(Tick) []string { return nil }

func (b *blogView) Region(id string) (any, bool) {
	switch id {
	case app.RegionSortMenu, app.RegionPostList, app.RegionPostOverlay:
		return b.site.Blog(b.query, b.sort.IsOpen()), true
	}
	return nil, false
}

func (b *blogView) Close() {
	b.sort.Close()
	b.modal.Hide()
	b.doc.RemoveAll()
}
