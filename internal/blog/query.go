// Package blog holds the listing logic of the blog page: the derived
// sorted/filtered view over the fixed post set and the per-view query state.
package blog

import (
	"slices"
	"strings"

	"redimaq/internal/domain/content"
)

type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// ParseSortOrder maps anything that is not "oldest" to newest, which is the
// page default.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(strings.TrimSpace(strings.ToLower(s))) == SortOldest {
		return SortOldest
	}
	return SortNewest
}

func (o SortOrder) Label() string {
	if o == SortOldest {
		return "Mais antigos"
	}
	return "Mais recentes"
}

// SortOptions lists the two options in menu order.
func SortOptions() []SortOrder {
	return []SortOrder{SortNewest, SortOldest}
}

// ComputeView returns posts sorted by date and filtered by search. The input
// slice is never modified. Same-date posts keep their source order.
func ComputeView(posts []content.Post, search string, order SortOrder) []content.Post {
	sorted := SortByDate(posts, order)
	if search == "" {
		return sorted
	}
	needle := strings.ToLower(search)
	out := make([]content.Post, 0, len(sorted))
	for _, p := range sorted {
		if Matches(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether the lower-cased title or excerpt contains needle,
// which must already be lower-cased. No trimming is applied.
func Matches(p content.Post, needle string) bool {
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Excerpt), needle)
}

// SortByDate is a stable sort on the calendar date.
func SortByDate(posts []content.Post, order SortOrder) []content.Post {
	out := slices.Clone(posts)
	slices.SortStableFunc(out, func(a, b content.Post) int {
		c := compareDates(a, b)
		if order == SortOldest {
			return c
		}
		return -c
	})
	return out
}

func compareDates(a, b content.Post) int {
	ta, okA := a.Day()
	tb, okB := b.Day()
	switch {
	case okA && okB:
		return ta.Compare(tb)
	case okA != okB:
		// 无法解析的日期排在最旧
		if okA {
			return 1
		}
		return -1
	default:
		return strings.Compare(a.Date, b.Date)
	}
}
