package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/terraverde/terraverde-api/internal/api/http/response"
	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/users/domain"
)

func (h *Handler) list(c *gin.Context) {
	f := domain.Filter{Role: c.Query("role")}
	if v := c.Query("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			response.Fail(c, apperror.Validation("active must be true or false"))
			return
		}
		f.Active = &active
	}

	users, err := h.userService.List(c.Request.Context(), f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, ToDTOs(users), "users retrieved")
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, ToDTO(u), "user retrieved")
}

func (h *Handler) create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("invalid JSON body"))
		return
	}

	u, err := h.userService.Create(c.Request.Context(), domain.CreateUserRequest{
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		Institution: req.Institution,
		Specialty:   req.Specialty,
		Phone:       req.Phone,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, ToDTO(u), "user created")
}

func (h *Handler) update(c *gin.Context) {
	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("invalid JSON body"))
		return
	}

	u, err := h.userService.Update(c.Request.Context(), c.Param("id"), domain.UpdateUserRequest{
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		Institution: req.Institution,
		Specialty:   req.Specialty,
		Phone:       req.Phone,
		Active:      req.Active,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, ToDTO(u), "user updated")
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, nil, "user deactivated")
}
