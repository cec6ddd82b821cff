package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/terraverde/terraverde-api/internal/api/http/response"
	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/auth"
	"github.com/terraverde/terraverde-api/internal/species/domain"
	"github.com/terraverde/terraverde-api/internal/species/normalize"
	"github.com/terraverde/terraverde-api/internal/species/query"
)

func (h *Handler) list(c *gin.Context) {
	f, err := query.FromValues(c.Request.URL.Query())
	if err != nil {
		response.Fail(c, err)
		return
	}

	items, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, ToDTOs(items), "species retrieved")
}

func (h *Handler) get(c *gin.Context) {
	sp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, ToDTO(sp), "species retrieved")
}

func (h *Handler) statistics(c *gin.Context) {
	st, err := h.svc.Statistics(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, st, "statistics retrieved")
}

func (h *Handler) create(c *gin.Context) {
	in, err := readSpeciesRequest(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	sp, err := h.svc.Create(c.Request.Context(), auth.UserFirebaseUID(c), in.patch, in.changes.Uploads)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, ToDTO(sp), "species created")
}

func (h *Handler) update(c *gin.Context) {
	in, err := readSpeciesRequest(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	sp, err := h.svc.Update(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"), in.patch, in.changes)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, ToDTO(sp), "species updated")
}

// methodOverride lets clients that can only POST send _method=PUT or
// _method=DELETE, in the query string or the form body.
func (h *Handler) methodOverride(c *gin.Context) {
	method := c.Query("_method")
	if method == "" {
		method = c.PostForm("_method")
	}
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case http.MethodPut:
		h.update(c)
	case http.MethodDelete:
		h.delete(c)
	default:
		response.MethodNotAllowed(c)
	}
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, nil, "species deleted")
}

var (
	keysCommentText   = []string{"text", "texto", "comment", "comentario"}
	keysCommentAuthor = []string{"author", "autor"}
	keysCommentDate   = []string{"date", "fecha"}
)

func (h *Handler) addComment(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Fail(c, apperror.Validation("invalid JSON body"))
		return
	}

	in := domain.CommentInput{}
	if v, ok := normalize.Lookup(body, keysCommentText...); ok {
		in.Text, _ = v.(string)
	}
	if v, ok := normalize.Lookup(body, keysCommentAuthor...); ok {
		in.Author, _ = v.(string)
	}
	if v, ok := normalize.Lookup(body, keysCommentDate...); ok {
		if t, ok := normalize.ParseTime(v); ok {
			in.Date = &t
		}
	}

	sp, err := h.svc.AddComment(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, ToDTO(sp), "comment added")
}
