package blog

import (
	"net/url"

	"redimaq/internal/domain/content"
)

// Query is the blog page's ephemeral state. Selected is always a value taken
// from the catalogue the query was built against.
type Query struct {
	Search   string
	Sort     SortOrder
	selected *content.Post
}

func NewQuery() Query {
	return Query{Sort: SortNewest}
}

// View is the derived listing for the current state.
func (q Query) View(posts []content.Post) []content.Post {
	return ComputeView(posts, q.Search, q.Sort)
}

func (q *Query) Select(p content.Post) {
	sel := p
	q.selected = &sel
}

func (q *Query) ClearSelection() {
	q.selected = nil
}

func (q Query) Selected() (content.Post, bool) {
	if q.selected == nil {
		return content.Post{}, false
	}
	return *q.selected, true
}

const (
	ParamSearch = "q"
	ParamSort   = "sort"
	ParamPost   = "post"
)

// QueryFromValues restores state from a URL query. An unknown post slug
// leaves the selection empty.
func QueryFromValues(v url.Values, cat *content.Catalog) Query {
	q := Query{
		Search: v.Get(ParamSearch),
		Sort:   ParseSortOrder(v.Get(ParamSort)),
	}
	if slug := v.Get(ParamPost); slug != "" {
		if p, ok := cat.BySlug(slug); ok {
			q.Select(p)
		}
	}
	return q
}

// Values encodes the state so links and reloads reproduce it. Defaults are
// omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set(ParamSearch, q.Search)
	}
	if q.Sort != SortNewest && q.Sort != "" {
		v.Set(ParamSort, string(q.Sort))
	}
	if p, ok := q.Selected(); ok {
		v.Set(ParamPost, p.Slug)
	}
	return v
}

// With helpers return links for the no-script fallback.

func (q Query) WithSort(o SortOrder) Query {
	q.Sort = o
	return q
}

func (q Query) WithSelected(p content.Post) Query {
	q.Select(p)
	return q
}

func (q Query) WithoutSelection() Query {
	q.ClearSelection()
	return q
}
