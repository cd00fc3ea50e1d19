package gallery

import "gallery-be/internal/catalog"

// Snapshot is the read-only state handed to the presentation layer.
type Snapshot struct {
	Items      []catalog.Item
	Criteria   Criteria
	Status     Status
	Loading    bool
	Error      string
	HasMore    bool
	EndOfList  bool
	Total      int
	Page       int
	PageSize   int
	Generation uint64
}

// Snapshot captures the current state. Items shares the engine's view,
// which is replaced rather than edited, so the snapshot stays valid after
// further transitions.
func (e *Engine) Snapshot() Snapshot {
	items := e.Visible()
	hasMore := e.HasMore()
	return Snapshot{
		Items:      items,
		Criteria:   e.criteria,
		Status:     e.status,
		Loading:    e.status == StatusLoading,
		Error:      e.errMsg,
		HasMore:    hasMore,
		EndOfList:  !hasMore && len(items) > 0 && e.errMsg == "",
		Total:      len(e.view),
		Page:       e.window.Pages(),
		PageSize:   e.window.PageSize(),
		Generation: e.generation,
	}
}
