package gallery

import (
	"slices"

	"gallery-be/internal/catalog"
)

const DefaultPageSize = 12

// Window tracks how much of a view is exposed. The exposed prefix only grows
// through Extend and only shrinks through Reset.
type Window struct {
	pageSize int
	pages    int
	exposed  int
}

// NewWindow fixes the page size for the window's lifetime. Sizes below one
// fall back to DefaultPageSize.
func NewWindow(pageSize int) *Window {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Window{pageSize: pageSize, pages: 1}
}

// Reset exposes the first page of view, or all of it when shorter.
func (w *Window) Reset(view []catalog.Item) {
	w.pages = 1
	w.exposed = min(w.pageSize, len(view))
}

// Extend exposes one more page of view, clamped to its length. It reports
// whether anything new was exposed; at the end it is a no-op.
func (w *Window) Extend(view []catalog.Item) bool {
	if !w.HasMore(view) {
		return false
	}
	w.pages++
	w.exposed = min(w.pages*w.pageSize, len(view))
	return true
}

func (w *Window) HasMore(view []catalog.Item) bool {
	return w.exposed < len(view)
}

// Visible returns the exposed prefix of view. The result must not be
// appended to.
func (w *Window) Visible(view []catalog.Item) []catalog.Item {
	n := min(w.exposed, len(view))
	return slices.Clip(view[:n])
}

func (w *Window) Len() int      { return w.exposed }
func (w *Window) Pages() int    { return w.pages }
func (w *Window) PageSize() int { return w.pageSize }
