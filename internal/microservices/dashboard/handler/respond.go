package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/internal/forms"
	"restaurant-dashboard/internal/gateway"
	"restaurant-dashboard/internal/microservices/dashboard/service"
)

func writeJSON(c *gin.Context, code int, v any) {
	c.JSON(code, v)
}

// problem is the simplified RFC 7807 body every error answer uses.
func problem(code int, typ, detail string) gin.H {
	return gin.H{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	}
}

func writeProblem(c *gin.Context, code int, typ, detail string) {
	c.AbortWithStatusJSON(code, problem(code, typ, detail))
}

// fail maps a service error onto its HTTP answer.
func fail(c *gin.Context, err error) {
	var fields forms.FieldErrors
	var apiErr *gateway.APIError
	var netErr *url.Error
	switch {
	case errors.As(err, &fields):
		body := problem(http.StatusUnprocessableEntity, "validation_failed", "some fields are invalid")
		body["fields"] = fields
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, forms.ErrIncomplete):
		writeProblem(c, http.StatusUnprocessableEntity, "form_incomplete", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeProblem(c, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeProblem(c, http.StatusForbidden, "forbidden", "your role cannot do this")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gateway.ErrNotFound):
		writeProblem(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrBadRequest):
		writeProblem(c, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, gateway.ErrUnauthorized):
		writeProblem(c, http.StatusUnauthorized, "backend_unauthorized", "the backend rejected this session, log in again")
	case errors.As(err, &apiErr), errors.As(err, &netErr):
		writeProblem(c, http.StatusBadGateway, "backend_error", err.Error())
	default:
		writeProblem(c, http.StatusInternalServerError, "internal", err.Error())
	}
}

func badBody(c *gin.Context, err error) {
	writeProblem(c, http.StatusBadRequest, "invalid_body", err.Error())
}

// atoiDefault is a lenient int parser with a default.
func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
