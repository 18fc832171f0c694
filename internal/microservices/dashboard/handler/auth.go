package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/internal/forms"
	"restaurant-dashboard/internal/microservices/dashboard/service"
	"restaurant-dashboard/internal/session"
)

type AuthHandler struct {
	service service.AuthServiceInterface
	ttl     time.Duration
}

func NewAuthHandler(s service.AuthServiceInterface, ttl time.Duration) *AuthHandler {
	return &AuthHandler{service: s, ttl: ttl}
}

type loginResponse struct {
	Token   string          `json:"token"`
	Session session.Session `json:"session"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in forms.Login
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, err)
		return
	}
	s, err := h.service.Login(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, s.Token, int(h.ttl.Seconds()), "/", "", false, true)
	writeJSON(c, http.StatusOK, loginResponse{Token: s.Token, Session: s})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.service.Logout(tokenOf(c))
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	s, _ := session.FromContext(c.Request.Context())
	writeJSON(c, http.StatusOK, s)
}
