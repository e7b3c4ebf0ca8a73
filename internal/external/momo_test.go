package external

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessKey = "F8BBA842ECF85"
	testSecretKey = "K951B6PE1waDMi640xX08PD3vg6EkVlz"
)

func testMomoConfig(endpoint string) MomoConfig {
	return MomoConfig{
		Endpoint:    endpoint,
		PartnerCode: "VOYAGO",
		PartnerName: "Voyago Travel",
		StoreID:     "VoyagoStore",
		AccessKey:   testAccessKey,
		SecretKey:   testSecretKey,
		RedirectURL: "https://voyago.example/payment/result",
		IPNURL:      "https://voyago.example/api/payments/ipn",
		Timeout:     5 * time.Second,
	}
}

// signCallback builds the canonical IPN string the gateway signs: every
// signed field in alphabetical key order, joined with &.
func signCallback(f MomoCallbackFields) string {
	raw := fmt.Sprintf("accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		testAccessKey, f.Amount, f.ExtraData, f.Message, f.OrderID, f.OrderInfo,
		f.OrderType, f.PartnerCode, f.PayType, f.RequestID, f.ResponseTime,
		f.ResultCode, f.TransID)

	mac := hmac.New(sha256.New, []byte(testSecretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCallback(t *testing.T) {
	client := NewMomoClient(testMomoConfig("https://test-payment.momo.vn"))

	fields := MomoCallbackFields{
		PartnerCode:  "VOYAGO",
		OrderID:      "VOYAGO_42_1700000000000",
		RequestID:    "0f8fad5b-d9cb-469f-a165-70867728950e",
		Amount:       8370000,
		OrderInfo:    "Voyago booking #42",
		OrderType:    "momo_wallet",
		TransID:      4088878653,
		ResultCode:   0,
		Message:      "Successful.",
		PayType:      "qr",
		ResponseTime: 1700000123456,
		ExtraData:    "",
	}
	fields.Signature = signCallback(fields)

	t.Run("Valid Signature", func(t *testing.T) {
		assert.True(t, client.VerifyCallback(fields))
	})

	t.Run("Tampered Amount", func(t *testing.T) {
		tampered := fields
		tampered.Amount = 1
		assert.False(t, client.VerifyCallback(tampered))
	})

	t.Run("Tampered Result Code", func(t *testing.T) {
		tampered := fields
		tampered.ResultCode = 9000
		assert.False(t, client.VerifyCallback(tampered))
	})

	t.Run("Wrong Signature", func(t *testing.T) {
		tampered := fields
		tampered.Signature = "deadbeef"
		assert.False(t, client.VerifyCallback(tampered))
	})

	t.Run("Empty Signature", func(t *testing.T) {
		tampered := fields
		tampered.Signature = ""
		assert.False(t, client.VerifyCallback(tampered))
	})
}

func TestCreatePayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/gateway/api/create", r.URL.Path)

			var req MomoCreateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "VOYAGO", req.PartnerCode)
			assert.Equal(t, "VOYAGO_42_1700000000000", req.OrderID)
			assert.Equal(t, int64(8370000), req.Amount)
			assert.Equal(t, "captureWallet", req.RequestType)
			assert.True(t, req.AutoCapture)
			assert.NotEmpty(t, req.Signature)

			json.NewEncoder(w).Encode(MomoCreateResponse{
				PartnerCode: req.PartnerCode,
				OrderID:     req.OrderID,
				RequestID:   req.RequestID,
				Amount:      req.Amount,
				ResultCode:  0,
				Message:     "Successful.",
				PayURL:      "https://test-payment.momo.vn/pay/abc",
			})
		}))
		defer srv.Close()

		client := NewMomoClient(testMomoConfig(srv.URL))
		resp, err := client.CreatePayment(context.Background(),
			"0f8fad5b-d9cb-469f-a165-70867728950e", "VOYAGO_42_1700000000000", "Voyago booking #42", 8370000)
		require.NoError(t, err)
		assert.Equal(t, "https://test-payment.momo.vn/pay/abc", resp.PayURL)
	})

	t.Run("Gateway Rejects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(MomoCreateResponse{
				ResultCode: 41,
				Message:    "Duplicated orderId",
			})
		}))
		defer srv.Close()

		client := NewMomoClient(testMomoConfig(srv.URL))
		resp, err := client.CreatePayment(context.Background(), "req-1", "VOYAGO_1_1", "info", 100)
		assert.Error(t, err)
		assert.Nil(t, resp)
		assert.Contains(t, err.Error(), "code=41")
	})

	t.Run("Gateway Server Error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("<html>502 Bad Gateway</html>"))
		}))
		defer srv.Close()

		client := NewMomoClient(testMomoConfig(srv.URL))
		resp, err := client.CreatePayment(context.Background(), "req-1", "VOYAGO_1_1", "info", 100)
		assert.Error(t, err)
		assert.Nil(t, resp)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("Gateway Unreachable", func(t *testing.T) {
		client := NewMomoClient(testMomoConfig("http://127.0.0.1:1"))
		resp, err := client.CreatePayment(context.Background(), "req-1", "VOYAGO_1_1", "info", 100)
		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestQueryStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/gateway/api/query", r.URL.Path)

		var req MomoQueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "VOYAGO", req.PartnerCode)
		assert.NotEmpty(t, req.Signature)

		json.NewEncoder(w).Encode(MomoQueryResponse{
			PartnerCode: req.PartnerCode,
			OrderID:     req.OrderID,
			RequestID:   req.RequestID,
			Amount:      8370000,
			TransID:     4088878653,
			ResultCode:  0,
			Message:     "Successful.",
		})
	}))
	defer srv.Close()

	client := NewMomoClient(testMomoConfig(srv.URL))
	resp, err := client.QueryStatus(context.Background(), "req-42", "VOYAGO_42_1700000000000")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ResultCode)
	assert.Equal(t, int64(4088878653), resp.TransID)
}
