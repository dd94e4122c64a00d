package content

import (
	"strings"
	"time"
)

// DateLayout is the on-disk and in-memory form of Post.Date.
const DateLayout = time.DateOnly

type Post struct {
	ID       int
	Title    string
	Excerpt  string
	Content  string
	ImageRef string
	Author   string
	Date     string
	Category string
	Slug     string

	// 由 ingest 填充
	Order      int
	SourcePath string
	Hash       string
}

// Day parses Date as a calendar date in UTC. An unparseable date yields the
// zero time and false.
func (p Post) Day() (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(p.Date), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DisplayDate renders Date the way the site shows it (dd/mm/yyyy).
func (p Post) DisplayDate() string {
	t, ok := p.Day()
	if !ok {
		return p.Date
	}
	return t.Format("02/01/2006")
}

func (p *Post) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = strings.TrimSpace(p.Slug)
	p.Author = strings.TrimSpace(p.Author)
	p.Category = strings.TrimSpace(p.Category)
	p.ImageRef = strings.TrimSpace(p.ImageRef)
	p.Date = strings.TrimSpace(p.Date)
}

// Catalog is an immutable snapshot of the post set in source order.
type Catalog struct {
	posts  []Post
	bySlug map[string]int
	byID   map[int]int
}

func NewCatalog(posts []Post) *Catalog {
	c := &Catalog{
		posts:  make([]Post, len(posts)),
		bySlug: make(map[string]int, len(posts)),
		byID:   make(map[int]int, len(posts)),
	}
	copy(c.posts, posts)
	for i, p := range c.posts {
		c.bySlug[p.Slug] = i
		c.byID[p.ID] = i
	}
	return c
}

// Posts returns a copy of the set so callers cannot reorder the snapshot.
func (c *Catalog) Posts() []Post {
	if c == nil {
		return nil
	}
	out := make([]Post, len(c.posts))
	copy(out, c.posts)
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.posts)
}

func (c *Catalog) BySlug(slug string) (Post, bool) {
	if c == nil {
		return Post{}, false
	}
	i, ok := c.bySlug[strings.TrimSpace(slug)]
	if !ok {
		return Post{}, false
	}
	return c.posts[i], true
}

func (c *Catalog) ByID(id int) (Post, bool) {
	if c == nil {
		return Post{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Post{}, false
	}
	return c.posts[i], true
}
