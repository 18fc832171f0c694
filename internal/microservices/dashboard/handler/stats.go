package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/internal/microservices/dashboard/service"
)

type StatsHandler struct {
	service service.StatsServiceInterface
}

func NewStatsHandler(s service.StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: s}
}

func (h *StatsHandler) Get(c *gin.Context) {
	tf, err := service.ParseTimeframe(c.Query("timeframe"))
	if err != nil {
		fail(c, err)
		return
	}
	st, err := h.service.Compute(c.Request.Context(), tf)
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, st)
}

type FeedbackHandler struct {
	service service.FeedbackServiceInterface
}

func NewFeedbackHandler(s service.FeedbackServiceInterface) *FeedbackHandler {
	return &FeedbackHandler{service: s}
}

func (h *FeedbackHandler) List(c *gin.Context) {
	v, err := h.service.List(c.Request.Context(), c.Query("filter"), c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, v)
}
