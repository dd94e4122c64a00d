package site

import "strings"

// TopAnchor always scrolls to the very top.
const TopAnchor = "#inicio"

// AnchorGap is the extra space left between the fixed header and the target.
const AnchorGap = 20

// Layout answers where an element sits; it is the browser's view of the page.
type Layout interface {
	// ElementTop is the element's top relative to the viewport.
	ElementTop(id string) (float64, bool)
	HeaderHeight() float64
	ScrollY() float64
}

// ScrollOffset returns the absolute scroll position for an in-page anchor, or
// false when the target does not exist (no scroll happens).
//
// static/js/site.js applies the same formula in the browser and reads
// TopAnchor and AnchorGap from the body's data-top-anchor and data-anchor-gap
// attributes.
func ScrollOffset(href string, l Layout) (float64, bool) {
	if href == TopAnchor {
		return 0, true
	}
	id := strings.TrimPrefix(href, "#")
	if id == "" {
		return 0, false
	}
	top, ok := l.ElementTop(id)
	if !ok {
		return 0, false
	}
	return top + l.ScrollY() - l.HeaderHeight() - AnchorGap, true
}

// IsAnchor reports whether href points inside the current page.
func IsAnchor(href string) bool {
	return strings.HasPrefix(href, "#")
}
