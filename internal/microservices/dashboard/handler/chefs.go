package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/forms"
	"restaurant-dashboard/internal/microservices/dashboard/service"
)

type ChefHandler struct {
	service service.ChefServiceInterface
}

func NewChefHandler(s service.ChefServiceInterface) *ChefHandler {
	return &ChefHandler{service: s}
}

func (h *ChefHandler) List(c *gin.Context) {
	chefs, err := h.service.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"chefs": chefs})
}

func (h *ChefHandler) Create(c *gin.Context) {
	var in forms.Chef
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, err)
		return
	}
	chef, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, chef)
}

func (h *ChefHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), domain.ID(c.Param("id"))); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChefHandler) Completion(c *gin.Context) {
	var in forms.Chef
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, err)
		return
	}
	pct := in.Completion()
	writeJSON(c, http.StatusOK, gin.H{"completion": pct, "submittable": pct >= forms.MinChefCompletion})
}
