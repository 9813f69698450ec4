package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/api/handler"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/api/respond"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository/memory"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	hub    *handler.Hub
	admin  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := memory.NewStore()
	hub := handler.NewHub(zap.NewNop())
	go hub.Start(ctx)

	svc := service.New(service.Deps{
		Tx:           store,
		Users:        store.Users(),
		VehicleTypes: store.VehicleTypes(),
		RateConfigs:  store.RateConfigs(),
		Vehicles:     store.Vehicles(),
		Spaces:       store.ParkingSpaces(),
		Sessions:     store.ParkingSessions(),
		Payments:     store.Payments(),
		Dashboard:    store.Dashboard(),
		Events:       hub,
		JWTSecret:    "api-test-secret",
	})
	if err := svc.Auth.EnsureAdmin(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	d := dispatch.New(zap.NewNop())
	if err := service.Register(d, svc); err != nil {
		t.Fatalf("Register: %v", err)
	}

	s := &testServer{t: t, router: NewRouter(d, svc.Auth, hub, zap.NewNop()), hub: hub}
	s.admin = s.login("admin", "admin123")
	return s
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// call performs the request, checks the status and decodes the body into out.
func (s *testServer) call(method, path, token string, body any, wantStatus int, out any) {
	s.t.Helper()
	w := s.do(method, path, token, body)
	if w.Code != wantStatus {
		s.t.Fatalf("%s %s: status = %d, want %d; body %s", method, path, w.Code, wantStatus, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			s.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	var auth domain.AuthResponseDTO
	s.call(http.MethodPost, "/auth/login", "", domain.LoginUserDTO{Username: username, Password: password}, http.StatusOK, &auth)
	if auth.Token == "" {
		s.t.Fatalf("login %s: empty token", username)
	}
	return auth.Token
}

// seed creates the Car type at 2000 per hour and the spaces A-01 and A-02.
func (s *testServer) seed() *domain.VehicleType {
	s.t.Helper()
	var car domain.VehicleType
	s.call(http.MethodPost, "/api/v1/vehicle-types", s.admin, map[string]any{"name": "Car"}, http.StatusCreated, &car)
	s.call(http.MethodPost, "/api/v1/rate-configs", s.admin, map[string]any{
		"vehicleTypeId": car.ID, "ratePerHour": 2000, "minimumChargeHours": 1,
	}, http.StatusCreated, nil)
	for _, n := range []string{"A-02", "A-01"} {
		s.call(http.MethodPost, "/api/v1/parking-spaces", s.admin, map[string]any{
			"spaceNumber": n, "vehicleTypeId": car.ID,
		}, http.StatusCreated, nil)
	}
	return &car
}

func TestLoginFailureBody(t *testing.T) {
	s := newTestServer(t)

	var body respond.ErrorBody
	s.call(http.MethodPost, "/auth/login", "", domain.LoginUserDTO{Username: "admin", Password: "wrong-pass"}, http.StatusUnauthorized, &body)
	if body.Status != http.StatusUnauthorized || body.Path != "/auth/login" || body.Message == "" {
		t.Errorf("body = %+v", body)
	}
	if body.Timestamp.IsZero() {
		t.Error("timestamp missing")
	}
}

func TestAuthGuards(t *testing.T) {
	s := newTestServer(t)
	s.call(http.MethodPost, "/auth/register", s.admin, map[string]any{
		"username": "operator1", "password": "secret1", "fullName": "Operator One",
	}, http.StatusCreated, nil)
	op := s.login("operator1", "secret1")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"no token", http.MethodGet, "/api/v1/vehicle-types", "", nil, http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/vehicle-types", "not-a-jwt", nil, http.StatusUnauthorized},
		{"operator reads", http.MethodGet, "/api/v1/vehicle-types", op, nil, http.StatusOK},
		{"operator creates type", http.MethodPost, "/api/v1/vehicle-types", op, map[string]any{"name": "Bus"}, http.StatusForbidden},
		{"operator registers user", http.MethodPost, "/auth/register", op, map[string]any{"username": "x12", "password": "secret1"}, http.StatusForbidden},
		{"operator reads user", http.MethodGet, "/api/v1/users/1", op, nil, http.StatusForbidden},
		{"admin reads user", http.MethodGet, "/api/v1/users/1", s.admin, nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.token, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d; body %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	var started domain.StartSessionResponse
	s.call(http.MethodPost, "/api/v1/parking-sessions/start", s.admin, map[string]any{
		"licensePlate": "abc-123", "vehicleTypeId": 1,
	}, http.StatusCreated, &started)
	if started.AssignedSpace != "A-01" || started.LicensePlate != "ABC-123" {
		t.Fatalf("started = %+v", started)
	}
	if !strings.HasPrefix(started.TicketCode, "TK-") {
		t.Errorf("ticket = %q", started.TicketCode)
	}

	var count struct{ Count int }
	s.call(http.MethodGet, "/api/v1/parking-spaces/count?available=true", s.admin, nil, http.StatusOK, &count)
	if count.Count != 1 {
		t.Errorf("available spaces = %d, want 1", count.Count)
	}

	var ended domain.EndSessionResponse
	s.call(http.MethodPost, "/api/v1/parking-sessions/end", s.admin, map[string]any{
		"ticketCode": started.TicketCode, "paymentMethod": "card",
	}, http.StatusOK, &ended)
	if !ended.TotalAmount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("total = %s, want 2000 (minimum charge)", ended.TotalAmount)
	}
	if ended.PaymentStatus != domain.PaymentPending {
		t.Errorf("payment status = %s", ended.PaymentStatus)
	}

	var status domain.PaymentStatusResponse
	s.call(http.MethodGet, "/api/v1/payments/"+strconv.Itoa(ended.PaymentID)+"/status", s.admin, nil, http.StatusOK, &status)
	if status.Status != domain.PaymentPending || status.RemainingSeconds <= 0 {
		t.Errorf("status = %+v", status)
	}

	var paid domain.Payment
	s.call(http.MethodPost, "/api/v1/payments/process", s.admin, map[string]any{"paymentId": ended.PaymentID}, http.StatusOK, &paid)
	if paid.PaymentStatus != domain.PaymentPaid || paid.OperatorID != 1 {
		t.Errorf("paid = %+v", paid)
	}

	var bySession domain.Payment
	s.call(http.MethodGet, "/api/v1/payments/session/"+strconv.Itoa(ended.SessionID), s.admin, nil, http.StatusOK, &bySession)
	if bySession.ID != ended.PaymentID {
		t.Errorf("payment by session = %d, want %d", bySession.ID, ended.PaymentID)
	}

	var summary domain.DashboardSummary
	s.call(http.MethodGet, "/api/v1/dashboard/summary", s.admin, nil, http.StatusOK, &summary)
	if summary.ActiveSessions != 0 || summary.AvailableSpaces != 2 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestSessionErrors(t *testing.T) {
	s := newTestServer(t)
	s.seed()
	s.call(http.MethodPost, "/api/v1/parking-sessions/start", s.admin, map[string]any{
		"licensePlate": "XYZ-999", "vehicleTypeId": 1,
	}, http.StatusCreated, nil)

	var body respond.ErrorBody
	s.call(http.MethodPost, "/api/v1/parking-sessions/start", s.admin, map[string]any{
		"licensePlate": "xyz-999",
	}, http.StatusBadRequest, &body)
	if body.ErrorType != "VEHICLE_ALREADY_PARKED" {
		t.Errorf("errorType = %q", body.ErrorType)
	}

	s.call(http.MethodPost, "/api/v1/parking-sessions/end", s.admin, map[string]any{"licensePlate": "XYZ-999"}, http.StatusOK, nil)
	body = respond.ErrorBody{}
	s.call(http.MethodPost, "/api/v1/parking-sessions/end", s.admin, map[string]any{"licensePlate": "XYZ-999"}, http.StatusNotFound, &body)
	if body.ErrorType != "NO_ACTIVE_SESSION" {
		t.Errorf("errorType = %q", body.ErrorType)
	}
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)

	var body respond.ErrorBody
	s.call(http.MethodPost, "/api/v1/parking-spaces", s.admin, map[string]any{}, http.StatusBadRequest, &body)
	if body.ErrorType != "VALIDATION_ERROR" || len(body.Details) != 2 {
		t.Errorf("body = %+v", body)
	}

	body = respond.ErrorBody{}
	s.call(http.MethodGet, "/api/v1/parking-spaces/abc", s.admin, nil, http.StatusBadRequest, &body)
	if body.ErrorType != "VALIDATION_ERROR" {
		t.Errorf("errorType = %q", body.ErrorType)
	}

	body = respond.ErrorBody{}
	s.call(http.MethodGet, "/api/v1/parking-spaces/42", s.admin, nil, http.StatusNotFound, &body)
	if body.ErrorType != "NOT_FOUND" {
		t.Errorf("errorType = %q", body.ErrorType)
	}

	s.call(http.MethodGet, "/api/v1/dashboard/revenue?date=01-05-2024", s.admin, nil, http.StatusBadRequest, nil)
	body = respond.ErrorBody{}
	s.call(http.MethodPost, "/api/v1/lpr/process-image", s.admin, map[string]any{"imageBase64": "%%%"}, http.StatusBadRequest, &body)
	if body.ErrorType != "VALIDATION_ERROR" || body.Path != "/api/v1/lpr/process-image" {
		t.Errorf("body = %+v", body)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/v1/vehicle-types", s.admin, nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestHubBroadcastsEvents(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.call(http.MethodPost, "/api/v1/parking-sessions/start", s.admin, map[string]any{
		"licensePlate": "WS-101", "vehicleTypeId": 1,
	}, http.StatusCreated, nil)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev domain.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != domain.EventSpaceOccupied || ev.LicensePlate != "WS-101" {
		t.Errorf("event = %+v", ev)
	}
}
