package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/internal/microservices/dashboard/service"
)

type ReportHandler struct {
	service service.ReportServiceInterface
}

func NewReportHandler(s service.ReportServiceInterface) *ReportHandler {
	return &ReportHandler{service: s}
}

func (h *ReportHandler) Statistics(c *gin.Context) {
	b, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

func (h *ReportHandler) Preview(c *gin.Context) {
	b, err := h.service.Preview(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

// Download streams the export as an attachment.
func (h *ReportHandler) Download(c *gin.Context) {
	r, err := h.service.Download(c.Request.Context(), c.Param("format"))
	if err != nil {
		fail(c, err)
		return
	}
	defer r.Body.Close()
	ct := r.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, ct, r.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", r.Filename),
	})
}
