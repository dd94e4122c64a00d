package render

import (
	"html/template"

	"redimaq/internal/domain/config"
	"redimaq/internal/domain/site"
)

// Chrome is what every page shares: header, footer and the live wiring.
type Chrome struct {
	Site    config.SiteConfig
	Title   string
	Socials []site.SocialLink
	Footer  []site.FooterLink
	Contact site.Contact
	Year    int

	ShowBlogLink bool
	AnchorGap    int
	TopAnchor    string

	// LiveURL is empty on pages without live regions and in static exports.
	LiveURL string
	Dev     bool
}

type Slide struct {
	Index  int
	Src    string
	Alt    string
	Label  string
	Active bool
}

// CarouselView is one carousel region as rendered at a single moment.
type CarouselView struct {
	Region     string
	Slides     []Slide
	Index      int
	Paused     bool
	Progress   float64
	IntervalMS int64
}

// ProgressPercent is Progress as a CSS width.
func (c CarouselView) ProgressPercent() int { return int(c.Progress * 100) }

// ElapsedMS is how far into the current interval the fill animation starts.
func (c CarouselView) ElapsedMS() int64 { return int64(c.Progress * float64(c.IntervalMS)) }

type HomePage struct {
	Chrome
	Hero       CarouselView
	Logos      []site.Logo
	Problems   []string
	Solutions  []string
	Categories []site.Category

	ProblemCTA   string
	SolutionsCTA string
	OfferCTA     string
}

type RepairPage struct {
	Chrome
	Compare  CarouselView
	Risks    []string
	Benefits []site.Benefit
	Gallery  []string

	HeroCTA    string
	ProblemCTA string
	FinalCTA   string
}

type PostCard struct {
	ID       int
	Slug     string
	Title    string
	Excerpt  string
	Category string
	Author   string
	Date     string
	ImageRef string

	// Href opens the post in the blog modal; PageURL is the standalone page.
	Href    string
	PageURL string
}

type PostDetail struct {
	PostCard
	HTML      template.HTML
	Headings  []Heading
	CloseHref string
}

type SortOption struct {
	Value  string
	Label  string
	Href   string
	Active bool
}

type BlogPage struct {
	Chrome
	Search      string
	Sort        string
	SortLabel   string
	SortOptions []SortOption
	SortOpen    bool
	// SortToggleHref flips the menu without script.
	SortToggleHref string

	Posts    []PostCard
	Selected *PostDetail
}

func (p BlogPage) Empty() bool { return len(p.Posts) == 0 }

type PostPage struct {
	Chrome
	Post    PostDetail
	Related []PostCard
}

type NotFoundPage struct {
	Chrome
	Path string
}
