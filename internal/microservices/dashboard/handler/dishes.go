package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/forms"
	"restaurant-dashboard/internal/microservices/dashboard/service"
)

// maxImageBytes bounds dish photo uploads.
const maxImageBytes = 8 << 20

type DishHandler struct {
	service service.DishServiceInterface
}

func NewDishHandler(s service.DishServiceInterface) *DishHandler {
	return &DishHandler{service: s}
}

func (h *DishHandler) List(c *gin.Context) {
	v, err := h.service.List(c.Request.Context(), c.Query("filter"), c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, v)
}

func (h *DishHandler) Categories(c *gin.Context) {
	cats, err := h.service.Categories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"categories": cats})
}

func (h *DishHandler) Create(c *gin.Context) {
	var in forms.Dish
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, err)
		return
	}
	d, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, d)
}

func (h *DishHandler) Update(c *gin.Context) {
	var in forms.Dish
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, err)
		return
	}
	d, err := h.service.Update(c.Request.Context(), domain.ID(c.Param("id")), in)
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

func (h *DishHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), domain.ID(c.Param("id"))); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Upload forwards the multipart "image" field and answers with its URL.
func (h *DishHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		writeProblem(c, http.StatusBadRequest, "invalid_body", "expected a multipart field named image")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	u, err := h.service.UploadImage(c.Request.Context(), fh.Filename, f)
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"url": u})
}

// Completion reports how much of the dish form is filled in.
func (h *DishHandler) Completion(c *gin.Context) {
	var in forms.Dish
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"completion": in.Completion()})
}
