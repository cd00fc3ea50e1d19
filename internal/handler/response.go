package handler

import (
	"encoding/json"
	"net/http"

	"gallery-be/internal/catalog"
	"gallery-be/internal/filterquery"
	"gallery-be/internal/gallery"
)

// GalleryResponse is the JSON body of every gallery endpoint.
type GalleryResponse struct {
	Items      []catalog.ItemDTO `json:"items"`
	Criteria   gallery.Criteria  `json:"criteria"`
	Query      string            `json:"query"`
	Status     gallery.Status    `json:"status"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
	HasMore    bool              `json:"hasMore"`
	EndOfList  bool              `json:"endOfList"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	Generation uint64            `json:"generation"`
}

func newGalleryResponse(s gallery.Snapshot) GalleryResponse {
	return GalleryResponse{
		Items:      catalog.ToDTOs(s.Items),
		Criteria:   s.Criteria,
		Query:      filterquery.EncodeString(s.Criteria),
		Status:     s.Status,
		Loading:    s.Loading,
		Error:      s.Error,
		HasMore:    s.HasMore,
		EndOfList:  s.EndOfList,
		Total:      s.Total,
		Page:       s.Page,
		PageSize:   s.PageSize,
		Generation: s.Generation,
	}
}

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, map[string]string{"error": message}, code)
}
