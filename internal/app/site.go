// Package app assembles page view models from configuration, the post
// catalogue and per-view interactive state.
package app

import (
	"fmt"
	"net/url"
	"time"

	"redimaq/internal/blog"
	"redimaq/internal/carousel"
	"redimaq/internal/domain/config"
	"redimaq/internal/domain/content"
	"redimaq/internal/domain/site"
	"redimaq/internal/index"
	"redimaq/internal/render"
)

// Region ids of the live parts of each page.
const (
	RegionHero        = "hero"
	RegionCompare     = "compare"
	RegionSortMenu    = "sort-menu"
	RegionPostList    = "post-list"
	RegionPostOverlay = "post-overlay"
)

// ParamSortMenu keeps the sort menu open in no-script links.
const ParamSortMenu = "menu"

const relatedLimit = 3

// Site is immutable after NewSite and safe for concurrent use.
type Site struct {
	Cfg  config.Config
	Copy site.Copy

	// Static renders for a plain file host: no live endpoint, and links that
	// need the server fall back to standalone pages.
	Static bool
	Now    func() time.Time

	catalog *content.Catalog
	bodies  map[string]render.MarkdownResult
	idx     *index.Store
}

// NewSite renders every post body up front. idx may be nil; the post page
// then shows no related posts.
func NewSite(cfg config.Config, cat *content.Catalog, idx *index.Store, md *render.MarkdownRenderer) (*Site, error) {
	bodies := make(map[string]render.MarkdownResult, cat.Len())
	for _, p := range cat.Posts() {
		res, err := md.Render([]byte(p.Content))
		if err != nil {
			return nil, fmt.Errorf("app: render post %s: %w", p.Slug, err)
		}
		bodies[p.Slug] = res
	}
	return &Site{
		Cfg:     cfg,
		Copy:    site.NewCopy(cfg.Contact),
		Now:     time.Now,
		catalog: cat,
		bodies:  bodies,
		idx:     idx,
	}, nil
}

func (s *Site) Catalog() *content.Catalog { return s.catalog }

func (s *Site) chrome(kind site.RouteKind, title, live string) render.Chrome {
	c := render.Chrome{
		Site:      s.Cfg.Site,
		Title:     title,
		Socials:   s.Copy.SocialLinks(),
		Contact:   s.Copy.Contact(kind == site.RouteRepair),
		Year:      s.Now().Year(),
		AnchorGap: site.AnchorGap,
		TopAnchor: site.TopAnchor,
		Dev:       s.Cfg.Server.Dev && !s.Static,
	}
	switch kind {
	case site.RouteHome:
		c.Footer = site.HomeFooterLinks()
		c.ShowBlogLink = true
	case site.RouteRepair:
		c.Footer = site.RepairFooterLinks()
	default:
		c.Footer = site.BlogFooterLinks()
		c.ShowBlogLink = true
	}
	if live != "" && !s.Static {
		c.LiveURL = live
	}
	return c
}

func liveURL(view string, extra url.Values) string {
	v := url.Values{}
	for k, vs := range extra {
		v[k] = vs
	}
	v.Set("view", view)
	return site.PathLive + "?" + v.Encode()
}

// HeroSlides are the home page slideshow images.
func HeroSlides() []carousel.Item {
	srcs := []string{"/images/seção_1.webp", "/images/seção_01.webp"}
	items := make([]carousel.Item, len(srcs))
	for i, src := range srcs {
		items[i] = carousel.Item{Src: src, Alt: fmt.Sprintf("Slide %d - Produtos Redimaq", i+1)}
	}
	return items
}

// CompareSlides are the before/after pair on the repair page.
func CompareSlides() []carousel.Item {
	return []carousel.Item{
		{Src: "/images/conserto_2.webp", Alt: "Exemplo de cadeira Antes do conserto", Label: "Antes"},
		{Src: "/images/conserto_3.webp", Alt: "Exemplo de cadeira Depois do conserto", Label: "Depois"},
	}
}

// CarouselSnapshot renders a carousel at st. progress is only shown by the
// comparison carousel.
func CarouselSnapshot(region string, items []carousel.Item, st carousel.State, progress float64, interval time.Duration) render.CarouselView {
	v := render.CarouselView{
		Region:     region,
		Index:      st.Index,
		Paused:     st.Paused(),
		Progress:   progress,
		IntervalMS: interval.Milliseconds(),
	}
	for i, it := range items {
		v.Slides = append(v.Slides, render.Slide{
			Index:  i,
			Src:    it.Src,
			Alt:    it.Alt,
			Label:  it.Label,
			Active: i == st.Index,
		})
	}
	return v
}

// ControllerSnapshot renders a live controller's current state.
func ControllerSnapshot(region string, c *carousel.Controller) render.CarouselView {
	return CarouselSnapshot(region, c.Items, c.State(), c.Progress(), c.Interval)
}

func (s *Site) Home(hero render.CarouselView) render.HomePage {
	return render.HomePage{
		Chrome:       s.chrome(site.RouteHome, "", liveURL("home", nil)),
		Hero:         hero,
		Logos:        site.ClientLogos(),
		Problems:     site.HomeProblems(),
		Solutions:    site.HomeSolutions(),
		Categories:   site.Categories(),
		ProblemCTA:   s.Copy.WhatsApp(site.MsgProblem),
		SolutionsCTA: s.Copy.WhatsApp(site.MsgSolutions),
		OfferCTA:     s.Copy.WhatsApp(site.MsgOffer),
	}
}

// InitialHome is the first paint: slide 0, playing.
func (s *Site) InitialHome() render.HomePage {
	return s.Home(CarouselSnapshot(RegionHero, HeroSlides(), carousel.State{}, 0, s.Cfg.Carousel.HeroInterval))
}

func (s *Site) Repair(compare render.CarouselView) render.RepairPage {
	return render.RepairPage{
		Chrome:     s.chrome(site.RouteRepair, "Conserto de Cadeiras", liveURL("repair", nil)),
		Compare:    compare,
		Risks:      site.RepairRisks(),
		Benefits:   site.RepairBenefits(),
		Gallery:    site.RepairGallery(),
		HeroCTA:    s.Copy.WhatsApp(site.MsgRepairHero),
		ProblemCTA: s.Copy.WhatsApp(site.MsgRepairProblem),
		FinalCTA:   s.Copy.WhatsApp(site.MsgRepairCTA),
	}
}

func (s *Site) InitialRepair() render.RepairPage {
	return s.Repair(CarouselSnapshot(RegionCompare, CompareSlides(), carousel.State{}, 0, s.Cfg.Carousel.CompareInterval))
}

func blogURL(v url.Values) string {
	if len(v) == 0 {
		return site.PathBlog
	}
	return site.PathBlog + "?" + v.Encode()
}

func (s *Site) card(p content.Post, q blog.Query) render.PostCard {
	c := render.PostCard{
		ID:       p.ID,
		Slug:     p.Slug,
		Title:    p.Title,
		Excerpt:  p.Excerpt,
		Category: p.Category,
		Author:   p.Author,
		Date:     p.DisplayDate(),
		ImageRef: p.ImageRef,
		PageURL:  site.PostURL(p.Slug),
	}
	if s.Static {
		c.Href = c.PageURL
	} else {
		c.Href = blogURL(q.WithSelected(p).Values())
	}
	return c
}

func (s *Site) detail(p content.Post, q blog.Query) render.PostDetail {
	body := s.bodies[p.Slug]
	return render.PostDetail{
		PostCard:  s.card(p, q),
		HTML:      body.HTML,
		Headings:  body.Headings,
		CloseHref: blogURL(q.WithoutSelection().Values()),
	}
}

// Blog renders the listing for q. sortOpen is the sort menu's disclosure
// state.
func (s *Site) Blog(q blog.Query, sortOpen bool) render.BlogPage {
	state := q.Values()
	if sortOpen {
		state.Set(ParamSortMenu, "open")
	}
	page := render.BlogPage{
		Chrome:    s.chrome(site.RouteBlog, "Blog", liveURL("blog", state)),
		Search:    q.Search,
		Sort:      string(q.Sort),
		SortLabel: q.Sort.Label(),
		SortOpen:  sortOpen,
	}

	menu := q.Values()
	if !sortOpen {
		menu.Set(ParamSortMenu, "open")
	}
	page.SortToggleHref = blogURL(menu)
	if s.Static {
		page.SortToggleHref = "#" + RegionSortMenu
	}

	for _, o := range blog.SortOptions() {
		page.SortOptions = append(page.SortOptions, render.SortOption{
			Value:  string(o),
			Label:  o.Label(),
			Href:   blogURL(q.WithSort(o).Values()),
			Active: o == q.Sort,
		})
	}

	for _, p := range q.View(s.catalog.Posts()) {
		page.Posts = append(page.Posts, s.card(p, q))
	}
	if p, ok := q.Selected(); ok {
		d := s.detail(p, q)
		page.Selected = &d
	}
	return page
}

// Post is the standalone article page.
func (s *Site) Post(slug string) (render.PostPage, error) {
	p, ok := s.catalog.BySlug(slug)
	if !ok {
		return render.PostPage{}, fmt.Errorf("app: post %q: %w", slug, index.ErrNotFound)
	}
	q := blog.NewQuery()
	page := render.PostPage{
		Chrome: s.chrome(site.RoutePost, p.Title, ""),
		Post:   s.detail(p, q),
	}
	if s.idx != nil {
		related, err := s.idx.ListByCategory(p.Category, p.Slug, relatedLimit)
		if err != nil {
			return render.PostPage{}, fmt.Errorf("app: related posts: %w", err)
		}
		for _, r := range related {
			page.Related = append(page.Related, s.card(r, q))
		}
	}
	return page, nil
}

func (s *Site) NotFound(path string) render.NotFoundPage {
	return render.NotFoundPage{
		Chrome: s.chrome(site.RouteNotFound, "Página não encontrada", ""),
		Path:   path,
	}
}
