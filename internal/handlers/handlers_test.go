package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyago/internal/database"
	"voyago/internal/external"
	"voyago/internal/messaging"
	"voyago/internal/models"
	"voyago/internal/repository"
	"voyago/internal/service"
)

// setupRouter builds the API surface over a sqlmock-backed stack. authed
// routes get a stub middleware injecting the given user id.
func setupRouter(t *testing.T, userID int64) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := &database.DB{DB: mockDB}
	repos := repository.NewRepositories(db)
	momo := external.NewMomoClient(external.MomoConfig{
		Endpoint:    "https://test-payment.momo.vn",
		PartnerCode: "VOYAGO",
		AccessKey:   "access",
		SecretKey:   "secret",
		Timeout:     time.Second,
	})
	services := service.NewServices(db, repos, momo, nil, nil, &messaging.NATSClient{})
	h := NewHandlers(services, nil)

	r := gin.New()
	r.POST("/api/payments/ipn", h.PaymentCallback)

	api := r.Group("/api")
	if userID != 0 {
		api.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Next()
		})
	}
	{
		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings", h.ListBookings)
		api.PATCH("/bookings/cancel", h.CancelBooking)
		api.POST("/payments", h.CreatePayment)
		api.GET("/payments/status", h.PaymentStatus)
		api.GET("/tours", h.ListTours)
		api.GET("/tours/search", h.SearchTours)
	}

	return r, mock
}

// signTestPayload signs an IPN payload with the router's gateway secret.
func signTestPayload(p models.PaymentCallbackPayload) string {
	raw := fmt.Sprintf("accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		"access", p.Amount, p.ExtraData, p.Message, p.OrderID, p.OrderInfo,
		p.OrderType, p.PartnerCode, p.PayType, p.RequestID, p.ResponseTime,
		p.ResultCode, p.TransID)

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingValidation(t *testing.T) {
	t.Run("Missing User", func(t *testing.T) {
		r, _ := setupRouter(t, 0)
		w := doJSON(r, http.MethodPost, "/api/bookings", models.CreateBookingRequest{
			ResourceType: "tour", ResourceID: 1, Quantity: 1,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		r, _ := setupRouter(t, 9)
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Zero Quantity", func(t *testing.T) {
		r, _ := setupRouter(t, 9)
		w := doJSON(r, http.MethodPost, "/api/bookings", map[string]interface{}{
			"resource_type": "tour", "resource_id": 1, "quantity": 0,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown Resource Type", func(t *testing.T) {
		r, _ := setupRouter(t, 9)
		w := doJSON(r, http.MethodPost, "/api/bookings", models.CreateBookingRequest{
			ResourceType: "cruise", ResourceID: 1, Quantity: 1,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Sold Out Maps To Conflict", func(t *testing.T) {
		r, mock := setupRouter(t, 9)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM tours`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "name", "description", "destination", "departs_at", "closed",
				"hotel_component", "transport_component", "unit_price", "total_units",
				"remaining_units", "created_at", "updated_at",
			}).AddRow(int64(10), "Sapa Trek", nil, "Lao Cai", now, false,
				int64(0), int64(0), int64(2000000), 10, 0, now, now))
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tours`).
			WithArgs(3, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		w := doJSON(r, http.MethodPost, "/api/bookings", models.CreateBookingRequest{
			ResourceType: "tour", ResourceID: 10, Quantity: 3,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestSearchToursValidation(t *testing.T) {
	t.Run("Missing Filters", func(t *testing.T) {
		r, _ := setupRouter(t, 9)
		w := doJSON(r, http.MethodGet, "/api/tours/search", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Bad Page Size", func(t *testing.T) {
		r, _ := setupRouter(t, 9)
		w := doJSON(r, http.MethodGet, "/api/tours/search?destination=Hanoi&pageSize=500", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentStatusValidation(t *testing.T) {
	r, _ := setupRouter(t, 9)

	w := doJSON(r, http.MethodGet, "/api/payments/status", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListToursValidation(t *testing.T) {
	r, _ := setupRouter(t, 9)

	w := doJSON(r, http.MethodGet, "/api/tours?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/tours?pageSize=500", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// The gateway treats any non-200 as undelivered and retries, so the IPN
// endpoint answers 200 no matter what happened inside.
func TestPaymentCallbackAlwaysAnswers200(t *testing.T) {
	t.Run("Malformed Payload", func(t *testing.T) {
		r, _ := setupRouter(t, 0)
		req := httptest.NewRequest(http.MethodPost, "/api/payments/ipn", bytes.NewBufferString("not json"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid Signature", func(t *testing.T) {
		r, mock := setupRouter(t, 0)

		w := doJSON(r, http.MethodPost, "/api/payments/ipn", models.PaymentCallbackPayload{
			PartnerCode: "VOYAGO",
			OrderID:     "VOYAGO_1_1",
			RequestID:   "req-1",
			Amount:      1000,
			ResultCode:  0,
			Signature:   "forged",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.EqualValues(t, 1, body["resultCode"])

		// Nothing was read or written
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Failure", func(t *testing.T) {
		r, mock := setupRouter(t, 0)

		// Signature verification needs the real digest; craft one with the
		// router's secret
		payload := models.PaymentCallbackPayload{
			PartnerCode: "VOYAGO",
			OrderID:     "VOYAGO_1_1",
			RequestID:   "req-1",
			Amount:      1000,
			ResultCode:  0,
		}
		payload.Signature = signTestPayload(payload)

		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs("VOYAGO_1_1").
			WillReturnError(assert.AnError)

		w := doJSON(r, http.MethodPost, "/api/payments/ipn", payload)
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.EqualValues(t, 1, body["resultCode"])
	})
}
