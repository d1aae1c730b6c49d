package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"storefront-backend/dtos"
)

// StoreClient talks to the commerce backend's REST surface: order creation
// and lookup, customer registration, credential exchange and store settings.
// Authentication uses the consumer key/secret pair the backend issues.
type StoreClient struct {
	BaseURL string
	Key     string
	Secret  string
	Client  *http.Client

	settingsMu        sync.Mutex
	settings          *StoreSettings
	settingsFetchedAt time.Time
}

func NewStoreClient(baseURL, key, secret string) *StoreClient {
	return &StoreClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Key:     key,
		Secret:  secret,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// OrderRequest is the payload CreateOrder sends upstream.
type OrderRequest struct {
	PaymentMethod      string               `json:"payment_method"`
	PaymentMethodTitle string               `json:"payment_method_title"`
	SetPaid            bool                 `json:"set_paid"`
	Billing            dtos.Address         `json:"billing"`
	Shipping           dtos.Address         `json:"shipping"`
	LineItems          []dtos.OrderLineItem `json:"line_items"`
	MetaData           []MetaData           `json:"meta_data,omitempty"`
}

type MetaData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AuthResult is what the upstream token endpoint returns on success.
type AuthResult struct {
	Token       string `json:"token"`
	Email       string `json:"user_email"`
	Username    string `json:"user_nicename"`
	DisplayName string `json:"user_display_name"`
}

// StoreSettings carries the store-wide display settings the front end needs.
type StoreSettings struct {
	CurrencyCode   string `json:"currency_code"`
	CurrencySymbol string `json:"currency_symbol"`
}

// currencySymbols maps the currency codes the storefront displays natively;
// anything else falls back to "$".
var currencySymbols = map[string]string{
	"USD": "$",
	"INR": "₹",
	"EUR": "€",
	"GBP": "£",
}

const settingsCacheTTL = time.Hour

// CreateOrder places an order upstream. Payment method defaults to cash on
// delivery and shipping defaults to the billing address, matching the
// storefront's checkout form.
func (sc *StoreClient) CreateOrder(ctx context.Context, req OrderRequest) (*dtos.OrderSummary, error) {
	if len(req.LineItems) == 0 {
		return nil, fmt.Errorf("order has no line items")
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cod"
		req.PaymentMethodTitle = "Cash on Delivery"
	}
	if req.Shipping == (dtos.Address{}) {
		req.Shipping = req.Billing
	}
	req.MetaData = append(req.MetaData, MetaData{Key: "_placed_from_headless", Value: "true"})

	var order dtos.OrderSummary
	if err := sc.do(ctx, http.MethodPost, "/wp-json/wc/v3/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches one order by its upstream identifier.
func (sc *StoreClient) GetOrder(ctx context.Context, orderID string) (*dtos.OrderSummary, error) {
	var order dtos.OrderSummary
	path := "/wp-json/wc/v3/orders/" + url.PathEscape(orderID)
	if err := sc.do(ctx, http.MethodGet, path, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Login exchanges credentials at the upstream token endpoint. The upstream
// treats the email address as the username.
func (sc *StoreClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	payload := map[string]string{"username": email, "password": password}
	body, _ := json.Marshal(payload)

	endpoint := sc.BaseURL + "/wp-json/jwt-auth/v1/token"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := sc.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("auth endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamError(resp, "login failed")
	}

	var result AuthResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("malformed auth response: %w", err)
	}
	if result.Token == "" || result.Email == "" {
		return nil, fmt.Errorf("auth response missing token or email")
	}
	return &result, nil
}

// Register creates a customer account upstream.
func (sc *StoreClient) Register(ctx context.Context, name, email, password string) error {
	payload := map[string]string{
		"email":    email,
		"username": email,
		"password": password,
	}
	if name != "" {
		payload["first_name"] = name
	}
	return sc.do(ctx, http.MethodPost, "/wp-json/wc/v3/customers", payload, nil)
}

// Settings returns the store display settings, cached in-process for an hour.
func (sc *StoreClient) Settings(ctx context.Context) (*StoreSettings, error) {
	sc.settingsMu.Lock()
	defer sc.settingsMu.Unlock()

	if sc.settings != nil && time.Since(sc.settingsFetchedAt) < settingsCacheTTL {
		return sc.settings, nil
	}

	var general []struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	}
	if err := sc.do(ctx, http.MethodGet, "/wp-json/wc/v3/settings/general", nil, &general); err != nil {
		return nil, err
	}

	code := "USD"
	for _, setting := range general {
		if setting.ID == "woocommerce_currency" && setting.Value != "" {
			code = setting.Value
			break
		}
	}
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = "$"
	}

	sc.settings = &StoreSettings{CurrencyCode: code, CurrencySymbol: symbol}
	sc.settingsFetchedAt = time.Now()
	return sc.settings, nil
}

// do performs one authenticated REST call and decodes the response into out.
func (sc *StoreClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	endpoint := fmt.Sprintf("%s%s?consumer_key=%s&consumer_secret=%s",
		sc.BaseURL, path, url.QueryEscape(sc.Key), url.QueryEscape(sc.Secret))

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := sc.Client.Do(req)
	if err != nil {
		return fmt.Errorf("commerce backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstreamError(resp, fmt.Sprintf("%s %s failed", method, path))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response from %s: %w", path, err)
	}
	return nil
}

// upstreamError extracts the backend's error message when it sends one.
func upstreamError(resp *http.Response, fallback string) error {
	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			return fmt.Errorf("%s (status %d): %s", fallback, resp.StatusCode, body.Message)
		}
		if body.Code != "" {
			return fmt.Errorf("%s (status %d): %s", fallback, resp.StatusCode, body.Code)
		}
	}
	return fmt.Errorf("%s (status %d)", fallback, resp.StatusCode)
}
