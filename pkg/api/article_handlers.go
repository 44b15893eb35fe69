package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/curatorhq/curator/pkg/content"
	"github.com/curatorhq/curator/pkg/contextkeys"
	"github.com/curatorhq/curator/pkg/httputil"
)

// ArticleHandlers handles article HTTP requests. Authorization happens in
// the content service; the handlers only translate errors.
type ArticleHandlers struct {
	service *content.Service
	log     *logrus.Logger
}

// NewArticleHandlers creates the article handlers.
func NewArticleHandlers(service *content.Service, log *logrus.Logger) *ArticleHandlers {
	return &ArticleHandlers{service: service, log: log}
}

// RegisterRoutes registers article routes on an authenticated router.
func (h *ArticleHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/articles", h.create).Methods("POST")
	router.HandleFunc("/articles", h.list).Methods("GET")
	router.HandleFunc("/articles/{id:[0-9]+}", h.get).Methods("GET")
	router.HandleFunc("/articles/{id:[0-9]+}", h.update).Methods("PUT")
	router.HandleFunc("/articles/{id:[0-9]+}", h.delete).Methods("DELETE")
	router.HandleFunc("/articles/{id:[0-9]+}/share", h.setShared).Methods("PUT")
}

type articleRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Body  string `json:"body"`
}

// create handles POST /articles
func (h *ArticleHandlers) create(w http.ResponseWriter, r *http.Request) {
	principal, ok := contextkeys.GetPrincipal(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	var req articleRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Title == "" {
		httputil.WriteBadRequest(w, "title is required")
		return
	}

	article, err := h.service.Create(r.Context(), principal, req.Title, req.URL, req.Body)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	httputil.WriteCreated(w, article)
}

// list handles GET /articles
func (h *ArticleHandlers) list(w http.ResponseWriter, r *http.Request) {
	principal, ok := contextkeys.GetPrincipal(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	articles, err := h.service.List(r.Context(), principal)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if articles == nil {
		articles = []content.Article{}
	}
	httputil.WriteSuccess(w, articles)
}

// get handles GET /articles/{id}
func (h *ArticleHandlers) get(w http.ResponseWriter, r *http.Request) {
	principal, ok := contextkeys.GetPrincipal(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	article, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	httputil.WriteSuccess(w, article)
}

// update handles PUT /articles/{id}
func (h *ArticleHandlers) update(w http.ResponseWriter, r *http.Request) {
	principal, ok := contextkeys.GetPrincipal(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req articleRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	article, err := h.service.Update(r.Context(), principal, id, req.Title, req.URL, req.Body)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	httputil.WriteSuccess(w, article)
}

// delete handles DELETE /articles/{id}
func (h *ArticleHandlers) delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := contextkeys.GetPrincipal(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	httputil.WriteNoContent(w)
}

// setShared handles PUT /articles/{id}/share
func (h *ArticleHandlers) setShared(w http.ResponseWriter, r *http.Request) {
	principal, ok := contextkeys.GetPrincipal(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Shared bool `json:"shared"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	article, err := h.service.SetShared(r.Context(), principal, id, req.Shared)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	httputil.WriteSuccess(w, article)
}
