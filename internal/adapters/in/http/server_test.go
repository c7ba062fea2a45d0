package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastmile/internal/core/domain/model/kernel"
)

var testSecret = []byte("test-signing-secret")

func signedToken(t *testing.T, subject, role string) string {
	t.Helper()

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func newTestEcho() (*echo.Echo, *Server) {
	e := echo.New()
	srv := NewServer(Handlers{})
	srv.RegisterRoutes(e, testSecret)
	return e, srv
}

func doRequest(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func Test_AuthMiddleware_RejectsMissingToken(t *testing.T) {
	e, _ := newTestEcho()

	rec := doRequest(e, http.MethodGet, "/api/v1/riders", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "bearer token")
}

func Test_AuthMiddleware_RejectsMalformedToken(t *testing.T) {
	e, _ := newTestEcho()

	rec := doRequest(e, http.MethodGet, "/api/v1/riders", "not-a-jwt", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_AuthMiddleware_RejectsWrongSignature(t *testing.T) {
	e, _ := newTestEcho()

	claims := Claims{
		Role: "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   kernel.NewUUID().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	rec := doRequest(e, http.MethodGet, "/api/v1/riders", forged, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_AuthMiddleware_RejectsExpiredToken(t *testing.T) {
	e, _ := newTestEcho()

	claims := Claims{
		Role: "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   kernel.NewUUID().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	rec := doRequest(e, http.MethodGet, "/api/v1/riders", expired, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_AuthMiddleware_RejectsTokenWithoutValidSubject(t *testing.T) {
	e, _ := newTestEcho()

	token := signedToken(t, "not-a-uuid", "rider")

	rec := doRequest(e, http.MethodGet, "/api/v1/riders", token, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_AuthMiddleware_ExposesActorToHandlers(t *testing.T) {
	e := echo.New()
	actorID := kernel.NewUUID()

	var gotID kernel.UUID
	var gotRole string
	e.GET("/whoami", func(ctx echo.Context) error {
		gotID, gotRole = actorFromContext(ctx)
		return ctx.NoContent(http.StatusOK)
	}, AuthMiddleware(testSecret))

	token := signedToken(t, actorID.String(), "rider")
	rec := doRequest(e, http.MethodGet, "/whoami", token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotID.IsEqual(actorID))
	assert.Equal(t, "rider", gotRole)
}

func Test_Server_RejectsInvalidOrderID(t *testing.T) {
	e, _ := newTestEcho()
	token := signedToken(t, kernel.NewUUID().String(), "dispatcher")

	rec := doRequest(e, http.MethodPost, "/api/v1/orders/not-a-uuid/confirm", token, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid order id")
}

func Test_Server_RejectsMalformedBody(t *testing.T) {
	e, _ := newTestEcho()
	token := signedToken(t, kernel.NewUUID().String(), "customer")

	rec := doRequest(e, http.MethodPost, "/api/v1/orders", token, "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_Server_CreateOrder_RejectsInvalidPayload(t *testing.T) {
	e, _ := newTestEcho()
	token := signedToken(t, kernel.NewUUID().String(), "customer")

	// Latitude out of range fails command construction before any handler runs.
	body := `{"dropoff_lat": 95.0, "dropoff_lng": 77.59,
		"items": [{"name": "milk", "quantity": 1, "unit_price": 6500}],
		"payment_method": "cod", "delivery_fee": 4000}`

	rec := doRequest(e, http.MethodPost, "/api/v1/orders", token, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_Server_PaymentConfirm_ForbiddenForCustomers(t *testing.T) {
	e, _ := newTestEcho()
	token := signedToken(t, kernel.NewUUID().String(), "customer")

	rec := doRequest(e, http.MethodPost,
		"/api/v1/payments/"+kernel.NewUUID().String()+"/confirm", token, "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func Test_Server_CollectCod_RejectsMissingIdempotencyKey(t *testing.T) {
	e, _ := newTestEcho()
	token := signedToken(t, kernel.NewUUID().String(), "rider")

	body := `{"mode": "CASH", "idempotency_key": ""}`
	rec := doRequest(e, http.MethodPost,
		"/api/v1/orders/"+kernel.NewUUID().String()+"/cod", token, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_Server_PutLocation_RejectsOutOfRangeSample(t *testing.T) {
	e, _ := newTestEcho()
	token := signedToken(t, kernel.NewUUID().String(), "rider")

	body := `{"lat": 12.97, "lng": 200.5, "heading": 90, "speed_kmh": 20,
		"recorded_at": "2026-08-30T10:00:00Z"}`
	rec := doRequest(e, http.MethodPost, "/api/v1/riders/location", token, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
