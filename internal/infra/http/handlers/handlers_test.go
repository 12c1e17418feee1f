package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/garage-leads/internal/entity"
	"github.com/xavierca1/garage-leads/internal/infra/http/handlers"
	"github.com/xavierca1/garage-leads/internal/offer"
	"github.com/xavierca1/garage-leads/internal/usecase"
)

const (
	adminUser   = "admin"
	adminPass   = "s3cret"
	adminSecret = "test-signing-secret"
)

type testServer struct {
	router  http.Handler
	leads   *MockLeadRepository
	upsells *MockUpsellRepository
	email   *MockChannel
	sms     *MockChannel
	auth    *usecase.AdminAuthUseCase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		leads:   new(MockLeadRepository),
		upsells: new(MockUpsellRepository),
		email:   new(MockChannel),
		sms:     new(MockChannel),
		auth:    usecase.NewAdminAuthUseCase(adminUser, adminPass, adminSecret, time.Hour),
	}

	catalog := offer.Default()
	ts.router = handlers.NewRouter(handlers.RouterConfig{
		Lead: handlers.NewLeadHandler(
			usecase.NewCreateLeadUseCase(ts.leads, catalog, nil),
			handlers.NewRateLimiter(5, 15*time.Minute),
		),
		Coupon: handlers.NewCouponHandler(
			usecase.NewSendCouponUseCase(catalog, ts.email, ts.sms, ts.leads, "https://book.example.com/?coupon="),
		),
		Upsell:         handlers.NewUpsellHandler(usecase.NewRecordUpsellUseCase(ts.upsells)),
		Admin:          handlers.NewAdminHandler(ts.auth, usecase.NewListLeadsUseCase(ts.leads, 100)),
		Health:         handlers.NewHealthHandler(nil, nil, "test"),
		AllowedOrigins: []string{"*"},
	})
	return ts
}

func (ts *testServer) do(method, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	return ts.doFrom("", method, path, body, header)
}

// doFrom sends the request from the given TCP peer address.
func (ts *testServer) doFrom(remote, method, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if remote != "" {
		req.RemoteAddr = remote
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func validLead() map[string]interface{} {
	return map[string]interface{}{
		"firstName": "Jane",
		"lastName":  "Doe",
		"phone":     "916-555-0100",
		"email":     "jane@example.com",
		"vehicle":   "2015 Honda Civic",
		"offerCode": "BYRD-DVI90",
		"utm":       map[string]string{"source": "google"},
	}
}

func TestCaptureLeadCreated(t *testing.T) {
	ts := newTestServer(t)
	ts.leads.On("ExistsSince", mock.Anything, "916-555-0100", "BYRD-DVI90", mock.Anything).Return(false, nil)
	ts.leads.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.IPAddress == "198.51.100.9" && l.UserAgent == "landing-test" && l.UTM["source"] == "google"
	})).Return(nil)

	rec := ts.doFrom("198.51.100.9:51000", http.MethodPost, "/api/leads", validLead(), map[string]string{
		"X-Forwarded-For": "203.0.113.7",
		"User-Agent":      "landing-test",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var out usecase.CreateLeadOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.LeadID)
	assert.Equal(t, "Lead captured successfully", out.Message)
	ts.leads.AssertExpectations(t)
}

func TestCaptureLeadValidationFields(t *testing.T) {
	ts := newTestServer(t)
	body := validLead()
	body["phone"] = "   "
	body["email"] = "not-an-email"

	rec := ts.do(http.MethodPost, "/api/leads", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, usecase.CodeValidation, resp.Error)
	assert.Contains(t, resp.Fields, "phone")
	assert.Contains(t, resp.Fields, "email")
	ts.leads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCaptureLeadDuplicate(t *testing.T) {
	ts := newTestServer(t)
	ts.leads.On("ExistsSince", mock.Anything, "916-555-0100", "BYRD-DVI90", mock.Anything).Return(true, nil)

	rec := ts.do(http.MethodPost, "/api/leads", validLead(), nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, usecase.CodeDuplicateLead, decodeError(t, rec).Error)
}

func TestCaptureLeadStoreFailureHidesDetails(t *testing.T) {
	ts := newTestServer(t)
	ts.leads.On("ExistsSince", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	ts.leads.On("Create", mock.Anything, mock.Anything).Return(errors.New("pq: connection refused"))

	rec := ts.do(http.MethodPost, "/api/leads", validLead(), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestCaptureLeadInvalidJSON(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/leads", "{bad", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", decodeError(t, rec).Error)
}

func TestCaptureLeadRateLimitedPerIP(t *testing.T) {
	ts := newTestServer(t)
	const peer = "198.51.100.20:40000"

	for i := 0; i < 5; i++ {
		rec := ts.doFrom(peer, http.MethodPost, "/api/leads", "{bad", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "request %d", i+1)
	}

	rec := ts.doFrom(peer, http.MethodPost, "/api/leads", "{bad", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	other := ts.doFrom("198.51.100.21:40000", http.MethodPost, "/api/leads", "{bad", nil)
	assert.Equal(t, http.StatusBadRequest, other.Code)
}

func TestCaptureLeadRateLimitIgnoresForwardedHeader(t *testing.T) {
	ts := newTestServer(t)
	const peer = "198.51.100.30:40000"

	limited := 0
	for i := 0; i < 50; i++ {
		rec := ts.doFrom(peer, http.MethodPost, "/api/leads", "{bad", map[string]string{
			"X-Forwarded-For": fmt.Sprintf("10.1.%d.%d", i/256, i%256),
		})
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 45, limited)
}

func TestSendCouponBothChannels(t *testing.T) {
	ts := newTestServer(t)
	ts.sms.On("SendCoupon", mock.Anything, "916-555-0100", mock.Anything).Return(nil)
	ts.email.On("SendCoupon", mock.Anything, "jane@example.com", mock.Anything).Return(errors.New("smtp down"))
	ts.leads.On("MarkCouponSent", mock.Anything, "916-555-0100", "BYRD-VIS15", mock.Anything, mock.Anything).Return(true, nil)

	rec := ts.do(http.MethodPost, "/api/coupons/send", map[string]interface{}{
		"offerCode": "BYRD-VIS15",
		"to":        map[string]string{"phone": "916-555-0100", "email": "jane@example.com"},
		"name":      "Jane Doe",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Success    bool          `json:"success"`
		Message    string        `json:"message"`
		CouponData entity.Coupon `json:"couponData"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "BYRD-VIS15", out.CouponData.Code)
	assert.Equal(t, "$25", out.CouponData.Value)
	assert.Equal(t, "Jane Doe", out.CouponData.CustomerName)
	assert.Equal(t, "https://book.example.com/?coupon=BYRD-VIS15", out.CouponData.BookingURL)
	ts.leads.AssertExpectations(t)
}

func TestSendCouponRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
		code string
	}{
		{
			name: "missing recipient",
			body: map[string]interface{}{"offerCode": "BYRD-VIS15", "name": "Jane", "to": map[string]string{}},
			code: usecase.CodeMissingFields,
		},
		{
			name: "missing name",
			body: map[string]interface{}{"offerCode": "BYRD-VIS15", "to": map[string]string{"email": "j@x.com"}},
			code: usecase.CodeMissingFields,
		},
		{
			name: "unknown offer",
			body: map[string]interface{}{"offerCode": "NOPE", "name": "Jane", "to": map[string]string{"email": "j@x.com"}},
			code: usecase.CodeInvalidOffer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)

			rec := ts.do(http.MethodPost, "/api/coupons/send", tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Error)
			ts.email.AssertNotCalled(t, "SendCoupon", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRecordUpsell(t *testing.T) {
	ts := newTestServer(t)
	ts.upsells.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.Upsell) bool {
		return u.Product == "wiper-blades" && u.Offer == "BYRD-VIS15" && u.Status == entity.UpsellStatusViewed
	})).Return(nil)

	rec := ts.do(http.MethodPost, "/api/upsell/record", map[string]string{
		"product": "wiper-blades",
		"offer":   "BYRD-VIS15",
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	var out usecase.RecordUpsellOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.UpsellID)

	rec = ts.do(http.MethodPost, "/api/upsell/record", map[string]string{"product": "wiper-blades"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecase.CodeMissingFields, decodeError(t, rec).Error)
}

func login(t *testing.T, ts *testServer) string {
	t.Helper()
	rec := ts.do(http.MethodPost, "/api/admin/auth", map[string]string{"username": adminUser, "password": adminPass}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out usecase.AdminLoginOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestAdminLogin(t *testing.T) {
	ts := newTestServer(t)
	login(t, ts)

	rec := ts.do(http.MethodPost, "/api/admin/auth", map[string]string{"username": adminUser, "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, usecase.CodeInvalidCredentials, decodeError(t, rec).Error)
}

func TestAdminLoginNotConfigured(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.Username = ""
	ts.auth.Password = ""

	rec := ts.do(http.MethodPost, "/api/admin/auth", map[string]string{"username": "a", "password": "b"}, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Admin access not configured", decodeError(t, rec).Message)
}

func TestAdminVerify(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	rec := ts.do(http.MethodPost, "/api/admin/verify-auth", nil, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)

	rec = ts.do(http.MethodPost, "/api/admin/verify-auth", map[string]string{"token": token}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPost, "/api/admin/verify-auth", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	viewer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "bob",
		"role":     "viewer",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(adminSecret))
	require.NoError(t, err)

	rec = ts.do(http.MethodPost, "/api/admin/verify-auth", nil, map[string]string{"Authorization": "Bearer " + viewer})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminVerifyRejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/admin/verify-auth", "{not json", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", decodeError(t, rec).Error)
}

func TestAdminLeadsRefusedWhenAdminNotConfigured(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.Username = ""
	ts.auth.Password = ""

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "attacker",
		"role":     usecase.RoleAdmin,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(adminSecret))
	require.NoError(t, err)

	rec := ts.do(http.MethodGet, "/api/admin/leads", nil, map[string]string{"Authorization": "Bearer " + forged})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, usecase.CodeAdminNotConfigured, decodeError(t, rec).Error)
	ts.leads.AssertNotCalled(t, "ListRecent", mock.Anything, mock.Anything)
}

func TestAdminLeadsRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/admin/leads", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodGet, "/api/admin/leads", nil, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	ts.leads.AssertNotCalled(t, "ListRecent", mock.Anything, mock.Anything)
}

func TestAdminLeadsListsWithStats(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	leads := []entity.Lead{{ID: "l-1", FirstName: "Jane", Phone: "916-555-0100", OfferCode: "BYRD-DVI90"}}
	stats := entity.LeadStats{Total: 12, Today: 2, ThisWeek: 5, CouponSent: 7}
	ts.leads.On("ListRecent", mock.Anything, 100).Return(leads, nil)
	ts.leads.On("Stats", mock.Anything, mock.Anything, mock.Anything).Return(stats, nil)

	rec := ts.do(http.MethodGet, "/api/admin/leads", nil, map[string]string{"Authorization": "Bearer " + token})

	require.Equal(t, http.StatusOK, rec.Code)
	var out usecase.ListLeadsOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Len(t, out.Leads, 1)
	assert.Equal(t, stats, out.Stats)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestHealthDegradedWhenBrokerClosed(t *testing.T) {
	h := handlers.NewHealthHandler(nil, fakeBroker{closed: true}, "test")
	rec := httptest.NewRecorder()

	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection closed")
}
