package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyago/internal/database"
	apperrors "voyago/internal/errors"
	"voyago/internal/external"
	"voyago/internal/messaging"
	"voyago/internal/models"
	"voyago/internal/repository"
)

const (
	testAccessKey = "F8BBA842ECF85"
	testSecretKey = "K951B6PE1waDMi640xX08PD3vg6EkVlz"
	testOrderID   = "VOYAGO_42_1700000000000"
)

var paymentColumns = []string{
	"id", "booking_id", "user_id", "amount", "order_id", "request_id",
	"method", "status", "trans_id", "created_at", "updated_at",
}

func newTestPaymentService(t *testing.T, gatewayURL string) (*PaymentService, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := &database.DB{DB: mockDB}
	repos := repository.NewRepositories(db)
	nats := &messaging.NATSClient{}
	bookings := NewBookingService(db, repos, nil, nats)

	momo := external.NewMomoClient(external.MomoConfig{
		Endpoint:    gatewayURL,
		PartnerCode: "VOYAGO",
		PartnerName: "Voyago Travel",
		StoreID:     "VoyagoStore",
		AccessKey:   testAccessKey,
		SecretKey:   testSecretKey,
		RedirectURL: "https://voyago.example/payment/result",
		IPNURL:      "https://voyago.example/api/payments/ipn",
		Timeout:     5 * time.Second,
	})

	return NewPaymentService(repos, bookings, momo, nats), mock
}

// signedCallback produces an IPN payload carrying a valid signature over the
// canonical alphabetical field concatenation.
func signedCallback(amount int64, resultCode int) *models.PaymentCallbackPayload {
	payload := &models.PaymentCallbackPayload{
		PartnerCode:  "VOYAGO",
		OrderID:      testOrderID,
		RequestID:    "req-42",
		Amount:       amount,
		OrderInfo:    "Voyago booking #42",
		OrderType:    "momo_wallet",
		TransID:      4088878653,
		ResultCode:   resultCode,
		Message:      "Successful.",
		PayType:      "qr",
		ResponseTime: 1700000123456,
		ExtraData:    "",
	}

	raw := fmt.Sprintf("accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		testAccessKey, payload.Amount, payload.ExtraData, payload.Message, payload.OrderID,
		payload.OrderInfo, payload.OrderType, payload.PartnerCode, payload.PayType,
		payload.RequestID, payload.ResponseTime, payload.ResultCode, payload.TransID)

	mac := hmac.New(sha256.New, []byte(testSecretKey))
	mac.Write([]byte(raw))
	payload.Signature = hex.EncodeToString(mac.Sum(nil))
	return payload
}

func pendingPaymentRow(amount int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(paymentColumns).AddRow(
		int64(3), int64(42), int64(9), amount, testOrderID,
		"req-42", "momo_wallet", models.PaymentStatusPending, nil, now, now,
	)
}

func pendingBookingRow(id int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingColumns).AddRow(
		id, int64(9), "tour", int64(10), 2,
		int64(8370000), models.BookingStatusPending, now, now,
	)
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Invalid Signature Changes Nothing", func(t *testing.T) {
		svc, mock := newTestPaymentService(t, "https://test-payment.momo.vn")

		payload := signedCallback(8370000, 0)
		payload.Signature = "forged"

		err := svc.HandleCallback(ctx, payload)
		assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
		// No query, no update: the gate rejects before any state is read
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success Completes Payment And Confirms Booking", func(t *testing.T) {
		svc, mock := newTestPaymentService(t, "https://test-payment.momo.vn")

		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs(testOrderID).
			WillReturnRows(pendingPaymentRow(8370000))
		mock.ExpectExec(`UPDATE payments`).
			WithArgs(testOrderID, int64(4088878653)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(int64(42)).
			WillReturnRows(pendingBookingRow(42))
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO invoice_details`).
			WithArgs(int64(42), int64(9), int64(8370000)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

		require.NoError(t, svc.HandleCallback(ctx, signedCallback(8370000, 0)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Success Callback Collapses", func(t *testing.T) {
		svc, mock := newTestPaymentService(t, "https://test-payment.momo.vn")

		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs(testOrderID).
			WillReturnRows(pendingPaymentRow(8370000))
		// Payment already COMPLETED: the conditional update misses
		mock.ExpectExec(`UPDATE payments`).
			WithArgs(testOrderID, int64(4088878653)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
				int64(42), int64(9), "tour", int64(10), 2,
				int64(8370000), models.BookingStatusConfirmed, now, now,
			))
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := svc.HandleCallback(ctx, signedCallback(8370000, 0))
		assert.ErrorIs(t, err, apperrors.ErrAlreadyProcessed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure Marks Payment Failed", func(t *testing.T) {
		svc, mock := newTestPaymentService(t, "https://test-payment.momo.vn")

		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs(testOrderID).
			WillReturnRows(pendingPaymentRow(8370000))
		mock.ExpectExec(`UPDATE payments`).
			WithArgs(testOrderID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, svc.HandleCallback(ctx, signedCallback(8370000, 9000)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure Never Reverts A Completed Payment", func(t *testing.T) {
		svc, mock := newTestPaymentService(t, "https://test-payment.momo.vn")

		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs(testOrderID).
			WillReturnRows(pendingPaymentRow(8370000))
		mock.ExpectExec(`UPDATE payments`).
			WithArgs(testOrderID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := svc.HandleCallback(ctx, signedCallback(8370000, 9000))
		assert.ErrorIs(t, err, apperrors.ErrAlreadyProcessed)
	})

	t.Run("Unknown Order", func(t *testing.T) {
		svc, mock := newTestPaymentService(t, "https://test-payment.momo.vn")

		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs(testOrderID).
			WillReturnRows(sqlmock.NewRows(paymentColumns))

		err := svc.HandleCallback(ctx, signedCallback(8370000, 0))
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Amount Mismatch Blocks Reconciliation", func(t *testing.T) {
		svc, mock := newTestPaymentService(t, "https://test-payment.momo.vn")

		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs(testOrderID).
			WillReturnRows(pendingPaymentRow(999))

		err := svc.HandleCallback(ctx, signedCallback(8370000, 0))
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreatePayment(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req external.MomoCreateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, int64(8370000), req.Amount)
			json.NewEncoder(w).Encode(external.MomoCreateResponse{
				OrderID:    req.OrderID,
				RequestID:  req.RequestID,
				Amount:     req.Amount,
				ResultCode: 0,
				PayURL:     "https://test-payment.momo.vn/pay/xyz",
			})
		}))
		defer srv.Close()

		svc, mock := newTestPaymentService(t, srv.URL)

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(int64(42)).
			WillReturnRows(pendingBookingRow(42))
		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(paymentColumns))
		mock.ExpectQuery(`INSERT INTO payments`).
			WithArgs(int64(42), int64(9), int64(8370000), sqlmock.AnyArg(), sqlmock.AnyArg(), "momo_wallet", models.PaymentStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(3), now, now))

		resp, err := svc.Create(ctx, 9, 42)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.OrderID, "VOYAGO_42_"))
		assert.Equal(t, "https://test-payment.momo.vn/pay/xyz", resp.PayURL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Gateway Failure Leaves No Payment Behind", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(external.MomoCreateResponse{ResultCode: 7002, Message: "being processed"})
		}))
		defer srv.Close()

		svc, mock := newTestPaymentService(t, srv.URL)

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(int64(42)).
			WillReturnRows(pendingBookingRow(42))
		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(paymentColumns))

		resp, err := svc.Create(ctx, 9, 42)
		assert.ErrorIs(t, err, apperrors.ErrGateway)
		assert.Nil(t, resp)
		// No INSERT expected: the local mirror is written only after the
		// gateway accepts
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Active Payment Already Exists", func(t *testing.T) {
		svc, mock := newTestPaymentService(t, "https://test-payment.momo.vn")

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(int64(42)).
			WillReturnRows(pendingBookingRow(42))
		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs(int64(42)).
			WillReturnRows(pendingPaymentRow(8370000))

		resp, err := svc.Create(ctx, 9, 42)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyProcessed)
		assert.Nil(t, resp)
	})

	t.Run("Only The Owner May Pay", func(t *testing.T) {
		svc, mock := newTestPaymentService(t, "https://test-payment.momo.vn")

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(int64(42)).
			WillReturnRows(pendingBookingRow(42))

		resp, err := svc.Create(ctx, 777, 42)
		assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)
		assert.Nil(t, resp)
	})
}

func TestCheckStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Gateway Success Reconciles Locally", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/gateway/api/query", r.URL.Path)
			json.NewEncoder(w).Encode(external.MomoQueryResponse{
				OrderID:    testOrderID,
				Amount:     8370000,
				TransID:    4088878653,
				ResultCode: 0,
				Message:    "Successful.",
			})
		}))
		defer srv.Close()

		svc, mock := newTestPaymentService(t, srv.URL)

		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs(testOrderID).
			WillReturnRows(pendingPaymentRow(8370000))
		mock.ExpectExec(`UPDATE payments`).
			WithArgs(testOrderID, int64(4088878653)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(int64(42)).
			WillReturnRows(pendingBookingRow(42))
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO invoice_details`).
			WithArgs(int64(42), int64(9), int64(8370000)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

		resp, err := svc.CheckStatus(ctx, testOrderID, "req-42")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCompleted, resp.Status)
		assert.Equal(t, 0, resp.ResultCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Pending At The Gateway Stays Pending", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(external.MomoQueryResponse{
				OrderID:    testOrderID,
				ResultCode: 1000,
				Message:    "Transaction is initiated",
			})
		}))
		defer srv.Close()

		svc, mock := newTestPaymentService(t, srv.URL)

		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs(testOrderID).
			WillReturnRows(pendingPaymentRow(8370000))

		resp, err := svc.CheckStatus(ctx, testOrderID, "req-42")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, resp.Status)
		assert.Equal(t, 1000, resp.ResultCode)
	})

	t.Run("Unknown Order", func(t *testing.T) {
		svc, mock := newTestPaymentService(t, "https://test-payment.momo.vn")

		mock.ExpectQuery(`SELECT (.+) FROM payments`).
			WithArgs("VOYAGO_0_0").
			WillReturnRows(sqlmock.NewRows(paymentColumns))

		resp, err := svc.CheckStatus(ctx, "VOYAGO_0_0", "")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Nil(t, resp)
	})
}
