package http

import (
	"encoding/json"
	"log"
	"net/http"

	"classquiz-service/internal/app"
)

// CatalogHandler serves the category and quiz listings for the pickers.
type CatalogHandler struct {
	catalog *app.CatalogService
}

func NewCatalogHandler(catalog *app.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		log.Printf("list categories: %v", err)
		http.Error(w, "failed to load categories", http.StatusInternalServerError)
		return
	}
	writeJSON(w, categories)
}

func (h *CatalogHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.catalog.Quizzes(r.Context(), r.URL.Query().Get("categoryId"))
	if err != nil {
		log.Printf("list quizzes: %v", err)
		http.Error(w, "failed to load quizzes", http.StatusInternalServerError)
		return
	}
	writeJSON(w, quizzes)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json response: %v", err)
	}
}
