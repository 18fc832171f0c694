package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/gateway"
	"restaurant-dashboard/internal/microservices/dashboard/service"
	"restaurant-dashboard/internal/session"
	"restaurant-dashboard/internal/store"
)

func init() { gin.SetMode(gin.TestMode) }

// stubGateway implements only what these tests reach; anything else panics
// through the nil embedded interface.
type stubGateway struct {
	service.Gateway
	login gateway.LoginResult
}

func (g *stubGateway) Login(ctx context.Context, email, password string) (gateway.LoginResult, error) {
	if password != "right" {
		return gateway.LoginResult{}, &gateway.APIError{StatusCode: http.StatusUnauthorized}
	}
	return g.login, nil
}

func (g *stubGateway) UpdateOrderStatus(ctx context.Context, id domain.ID, patch domain.StatusPatch) (*domain.Order, error) {
	return nil, nil
}

func (g *stubGateway) FetchDishes(ctx context.Context) ([]domain.Dish, error) {
	return []domain.Dish{{ID: "1", Name: "Dosa", Available: true}}, nil
}

func (g *stubGateway) DownloadReport(ctx context.Context, format string) (*gateway.Report, error) {
	return &gateway.Report{Body: io.NopCloser(strings.NewReader("xlsx-bytes")), ContentType: "application/vnd.ms-excel", Filename: "order_report.xlsx"}, nil
}

type countingRefresher struct{ calls atomic.Int32 }

func (r *countingRefresher) Refresh(ctx context.Context) error {
	r.calls.Add(1)
	return nil
}

type fixture struct {
	router    *gin.Engine
	orders    *store.Store
	sessions  *session.Registry
	refresher *countingRefresher
}

func setup(t *testing.T, opts Options) fixture {
	t.Helper()
	log := logger.NewWithWriter("test", io.Discard)
	orders := store.New()
	orders.ReplaceAll([]domain.Order{{ID: "1", TableNo: 4, Amount: 20, Date: "2024-01-01", Time: "12:00"}})
	sessions := session.NewRegistry(time.Hour)
	refresher := &countingRefresher{}
	gw := &stubGateway{login: gateway.LoginResult{Token: "backend-token", Profile: domain.AdminProfile{Name: "Mo", Email: "mo@example.com", Role: "Manager"}}}

	svc := service.New(service.Deps{
		Gateway:    gw,
		Orders:     orders,
		Tables:     store.NewTableStore(),
		Dishes:     store.NewDishCatalog(),
		Reconciler: refresher,
		Sessions:   sessions,
		Log:        log,
	})
	r, err := Router(New(svc, orders, log, opts))
	require.NoError(t, err)

	sessions.Open("manager-token", session.Session{Role: session.RoleManager})
	sessions.Open("chef-token", session.Session{Role: session.RoleChef})
	return fixture{router: r, orders: orders, sessions: sessions, refresher: refresher}
}

func (f fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func TestUnauthenticatedRequestsGetProblem(t *testing.T) {
	f := setup(t, Options{})

	w := f.do(http.MethodGet, "/api/v1/orders", "", "")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, "unauthenticated", body["type"])
	assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestLoginSetsCookieUsableForMe(t *testing.T) {
	f := setup(t, Options{})

	w := f.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"mo@example.com","password":"right"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "backend-token", cookies[0].Value)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(cookies[0])
	me := httptest.NewRecorder()
	f.router.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "manager", decode(t, me)["role"])

	bad := f.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"mo@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
	assert.Equal(t, "invalid_credentials", decode(t, bad)["type"])

	missing := f.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"mo@example.com"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, missing.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	f := setup(t, Options{})

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/api/v1/auth/logout", "chef-token", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/v1/auth/me", "chef-token", "").Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	f := setup(t, Options{LoginRate: "1-M"})
	body := `{"email":"mo@example.com","password":"right"}`

	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/v1/auth/login", "", body).Code)
	w := f.do(http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", decode(t, w)["type"])
}

func TestRoutesEnforceRoles(t *testing.T) {
	f := setup(t, Options{})

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"chef toggles serving", http.MethodPatch, "/api/v1/orders/1/serving", "chef-token", "", http.StatusOK},
		{"chef cannot set payment", http.MethodPatch, "/api/v1/orders/1/payment", "chef-token", `{"value":true}`, http.StatusForbidden},
		{"manager sets payment", http.MethodPatch, "/api/v1/orders/1/payment", "manager-token", `{"value":true}`, http.StatusOK},
		{"unknown order", http.MethodPatch, "/api/v1/orders/9/serving", "manager-token", "", http.StatusNotFound},
		{"chef cannot list chefs", http.MethodGet, "/api/v1/chefs", "chef-token", "", http.StatusForbidden},
		{"chef cannot view stats", http.MethodGet, "/api/v1/stats", "chef-token", "", http.StatusForbidden},
		{"manager views stats", http.MethodGet, "/api/v1/stats?timeframe=month", "manager-token", "", http.StatusOK},
		{"bad timeframe", http.MethodGet, "/api/v1/stats?timeframe=decade", "manager-token", "", http.StatusBadRequest},
		{"bad category", http.MethodGet, "/api/v1/orders?category=bogus", "chef-token", "", http.StatusBadRequest},
		{"bad table number", http.MethodGet, "/api/v1/tables/abc/details", "chef-token", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	o, _ := f.orders.Get("1")
	assert.True(t, o.ServingStatus)
	assert.True(t, o.PaymentStatus)
}

func TestFormErrorsAreUnprocessable(t *testing.T) {
	f := setup(t, Options{})

	w := f.do(http.MethodPost, "/api/v1/dishes", "chef-token", `{"Price":-3}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields, ok := decode(t, w)["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Dish name is required", fields["Name"])
	assert.Equal(t, "Price must be a positive number", fields["Price"])

	w = f.do(http.MethodPost, "/api/v1/chefs", "manager-token", `{"Name":"Solo"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "form_incomplete", decode(t, w)["type"])

	w = f.do(http.MethodPost, "/api/v1/chefs/form/completion", "manager-token", `{"Name":"Solo","Email":"s@x.io"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"completion": float64(40), "submittable": true}, decode(t, w))
}

func TestListAndDashboard(t *testing.T) {
	f := setup(t, Options{})

	w := f.do(http.MethodGet, "/api/v1/orders?search=4&sort=amount-high", "chef-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view service.OrdersView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Orders, 1)
	assert.Equal(t, 1, view.Stats.Total)

	w = f.do(http.MethodGet, "/api/v1/dashboard", "chef-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	var dash service.DashboardView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Equal(t, 1, dash.AvailableDishes)
	assert.Len(t, dash.RecentOrders, 1)
}

func TestReportDownloadIsAttachment(t *testing.T) {
	f := setup(t, Options{})

	w := f.do(http.MethodGet, "/api/v1/reports/download/excel", "manager-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="order_report.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx-bytes", w.Body.String())

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/v1/reports/download/txt", "manager-token", "").Code)
}

func TestHealthIncludesProbe(t *testing.T) {
	f := setup(t, Options{Probe: func() map[string]any { return map[string]any{"connected": true} }})

	w := f.do(http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"status": "ok", "connected": true}, decode(t, w))
}

func TestStreamPushesStoreChanges(t *testing.T) {
	f := setup(t, Options{})
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/orders/stream?category=serving"
	hdr := http.Header{"Authorization": []string{"Bearer chef-token"}}
	ws, _, err := websocket.DefaultDialer.Dial(url, hdr)
	require.NoError(t, err)
	defer ws.Close()
	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first streamFrame
	require.NoError(t, ws.ReadJSON(&first))
	assert.Len(t, first.Orders, 1)

	f.orders.ApplyCreated(domain.Order{ID: "2", Amount: 5, Date: "2024-01-02", Time: "12:00"})

	var next streamFrame
	require.NoError(t, ws.ReadJSON(&next))
	assert.Greater(t, next.Version, first.Version)
	require.Len(t, next.Orders, 2)
	assert.Equal(t, domain.ID("2"), next.Orders[0].ID)
}

func TestRefreshValidatesQueryFirst(t *testing.T) {
	f := setup(t, Options{})

	bad := f.do(http.MethodPost, "/api/v1/orders/refresh?sort=sideways", "manager-token", "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Zero(t, f.refresher.calls.Load())

	ok := f.do(http.MethodPost, "/api/v1/orders/refresh?sort=newest", "manager-token", "")
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())
	assert.Equal(t, int32(1), f.refresher.calls.Load())
}
