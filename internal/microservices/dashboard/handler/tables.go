package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/internal/microservices/dashboard/service"
)

type TableHandler struct {
	service service.TableServiceInterface
}

func NewTableHandler(s service.TableServiceInterface) *TableHandler {
	return &TableHandler{service: s}
}

func (h *TableHandler) List(c *gin.Context) {
	v, err := h.service.List(c.Request.Context(), c.Query("filter"), c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, v)
}

func (h *TableHandler) Details(c *gin.Context) {
	no, ok := tableNo(c)
	if !ok {
		return
	}
	v, err := h.service.Details(c.Request.Context(), no)
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, v)
}

func (h *TableHandler) Clear(c *gin.Context) {
	no, ok := tableNo(c)
	if !ok {
		return
	}
	v, err := h.service.Clear(c.Request.Context(), no)
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, v)
}

func tableNo(c *gin.Context) (int, bool) {
	no := atoiDefault(c.Param("no"), 0)
	if no <= 0 {
		writeProblem(c, http.StatusBadRequest, "bad_request", "table number must be a positive integer")
		return 0, false
	}
	return no, true
}
