package external

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MomoClient talks to the MoMo payment gateway. Every request carries an
// HMAC-SHA256 signature over the canonical key=value&... string, keys in
// alphabetical order.
type MomoClient struct {
	cfg        MomoConfig
	httpClient *http.Client
}

type MomoConfig struct {
	Endpoint    string
	PartnerCode string
	PartnerName string
	StoreID     string
	AccessKey   string
	SecretKey   string
	RedirectURL string
	IPNURL      string
	Timeout     time.Duration
}

// MomoCreateRequest is the outbound payment-session create body
type MomoCreateRequest struct {
	PartnerCode  string `json:"partnerCode"`
	PartnerName  string `json:"partnerName"`
	StoreID      string `json:"storeId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderID      string `json:"orderId"`
	OrderInfo    string `json:"orderInfo"`
	RedirectURL  string `json:"redirectUrl"`
	IPNURL       string `json:"ipnUrl"`
	Lang         string `json:"lang"`
	RequestType  string `json:"requestType"`
	AutoCapture  bool   `json:"autoCapture"`
	ExtraData    string `json:"extraData"`
	OrderGroupID string `json:"orderGroupId"`
	Signature    string `json:"signature"`
}

// MomoCreateResponse is the gateway's reply to a create request
type MomoCreateResponse struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	ResponseTime int64  `json:"responseTime"`
	Message      string `json:"message"`
	ResultCode   int    `json:"resultCode"`
	PayURL       string `json:"payUrl"`
}

// MomoQueryRequest is the status-polling body
type MomoQueryRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	OrderID     string `json:"orderId"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

// MomoQueryResponse is the gateway's authoritative payment status
type MomoQueryResponse struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
}

// MomoCallbackFields is the subset of the IPN body covered by its signature.
type MomoCallbackFields struct {
	PartnerCode  string
	OrderID      string
	RequestID    string
	Amount       int64
	OrderInfo    string
	OrderType    string
	TransID      int64
	ResultCode   int
	Message      string
	PayType      string
	ResponseTime int64
	ExtraData    string
	Signature    string
}

func NewMomoClient(cfg MomoConfig) *MomoClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &MomoClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// PartnerCode returns the configured merchant identifier. Order IDs embed
// it so the gateway can attribute callbacks.
func (mc *MomoClient) PartnerCode() string {
	return mc.cfg.PartnerCode
}

func (mc *MomoClient) sign(raw string) string {
	mac := hmac.New(sha256.New, []byte(mc.cfg.SecretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

// CreatePayment opens a gateway payment session and returns the hosted
// payment URL.
func (mc *MomoClient) CreatePayment(ctx context.Context, requestID, orderID, orderInfo string, amount int64) (*MomoCreateResponse, error) {
	requestType := "captureWallet"
	raw := fmt.Sprintf("accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		mc.cfg.AccessKey, amount, "", mc.cfg.IPNURL, orderID, orderInfo,
		mc.cfg.PartnerCode, mc.cfg.RedirectURL, requestID, requestType)

	req := MomoCreateRequest{
		PartnerCode: mc.cfg.PartnerCode,
		PartnerName: mc.cfg.PartnerName,
		StoreID:     mc.cfg.StoreID,
		RequestID:   requestID,
		Amount:      amount,
		OrderID:     orderID,
		OrderInfo:   orderInfo,
		RedirectURL: mc.cfg.RedirectURL,
		IPNURL:      mc.cfg.IPNURL,
		Lang:        "vi",
		RequestType: requestType,
		AutoCapture: true,
		Signature:   mc.sign(raw),
	}

	var resp MomoCreateResponse
	if err := mc.post(ctx, "/v2/gateway/api/create", req, &resp); err != nil {
		return nil, err
	}

	if resp.ResultCode != 0 {
		return nil, fmt.Errorf("gateway rejected payment creation: code=%d message=%s", resp.ResultCode, resp.Message)
	}

	return &resp, nil
}

// QueryStatus asks the gateway for a payment's authoritative status.
func (mc *MomoClient) QueryStatus(ctx context.Context, requestID, orderID string) (*MomoQueryResponse, error) {
	raw := fmt.Sprintf("accessKey=%s&orderId=%s&partnerCode=%s&requestId=%s",
		mc.cfg.AccessKey, orderID, mc.cfg.PartnerCode, requestID)

	req := MomoQueryRequest{
		PartnerCode: mc.cfg.PartnerCode,
		RequestID:   requestID,
		OrderID:     orderID,
		Lang:        "vi",
		Signature:   mc.sign(raw),
	}

	var resp MomoQueryResponse
	if err := mc.post(ctx, "/v2/gateway/api/query", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// VerifyCallback recomputes the IPN signature and compares it in constant
// time. A payload failing this check must not influence any local state.
func (mc *MomoClient) VerifyCallback(f MomoCallbackFields) bool {
	raw := fmt.Sprintf("accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		mc.cfg.AccessKey, f.Amount, f.ExtraData, f.Message, f.OrderID, f.OrderInfo,
		f.OrderType, f.PartnerCode, f.PayType, f.RequestID, f.ResponseTime,
		f.ResultCode, f.TransID)

	expected := mc.sign(raw)
	return hmac.Equal([]byte(expected), []byte(f.Signature))
}

func (mc *MomoClient) post(ctx context.Context, path string, body, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mc.cfg.Endpoint+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := mc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}
