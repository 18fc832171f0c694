package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"restaurant-dashboard/internal/session"
)

func Router(h *Handler) (*gin.Engine, error) {
	loginLimit, err := rateLimit(h.opts.LoginRate, h.opts.LimiterStore)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), h.requestLog())

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", loginLimit, h.AuthHandler.Login)

	api := v1.Group("", h.authenticate())
	api.POST("/auth/logout", h.AuthHandler.Logout)
	api.GET("/auth/me", h.AuthHandler.Me)

	api.GET("/dashboard", h.OrderHandler.Dashboard)

	api.GET("/orders", h.OrderHandler.List)
	api.GET("/orders/summary", h.OrderHandler.Summary)
	api.GET("/orders/stream", h.OrderHandler.Stream)
	api.POST("/orders/refresh", h.OrderHandler.Refresh)
	api.PATCH("/orders/:id/serving", allow(session.Session.CanSetServing), h.OrderHandler.SetServing)
	api.PATCH("/orders/:id/payment", allow(session.Session.CanSetPayment), h.OrderHandler.SetPayment)

	api.GET("/dishes", h.DishHandler.List)
	api.GET("/dishes/categories", h.DishHandler.Categories)
	api.POST("/dishes", h.DishHandler.Create)
	api.POST("/dishes/upload", h.DishHandler.Upload)
	api.POST("/dishes/form/completion", h.DishHandler.Completion)
	api.PUT("/dishes/:id", h.DishHandler.Update)
	api.DELETE("/dishes/:id", h.DishHandler.Delete)

	api.GET("/tables", h.TableHandler.List)
	api.GET("/tables/:no/details", h.TableHandler.Details)
	api.POST("/tables/:no/clear", h.TableHandler.Clear)

	chefs := api.Group("/chefs", allow(session.Session.CanManageStaff))
	chefs.GET("", h.ChefHandler.List)
	chefs.POST("", h.ChefHandler.Create)
	chefs.POST("/form/completion", h.ChefHandler.Completion)
	chefs.DELETE("/:id", h.ChefHandler.Delete)

	api.GET("/stats", allow(session.Session.CanViewStats), h.StatsHandler.Get)
	api.GET("/feedback", h.FeedbackHandler.List)

	api.GET("/reports/statistics", h.ReportHandler.Statistics)
	api.GET("/reports/preview", h.ReportHandler.Preview)
	api.GET("/reports/download/:format", h.ReportHandler.Download)

	r.NoRoute(func(c *gin.Context) {
		writeProblem(c, http.StatusNotFound, "not_found", "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})
	return r, nil
}

func (h *Handler) health(c *gin.Context) {
	body := map[string]any{"status": "ok"}
	if h.opts.Probe != nil {
		for k, v := range h.opts.Probe() {
			body[k] = v
		}
	}
	writeJSON(c, http.StatusOK, body)
}
