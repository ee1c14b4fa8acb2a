package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/cache"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/env"
)

const (
	defaultTokenURL   = "https://sandbox.safaricom.co.ke/oauth/v1/generate?grant_type=client_credentials"
	defaultSTKPushURL = "https://sandbox.safaricom.co.ke/mpesa/stkpush/v1/processrequest"

	// TransactionType for customer-initiated paybill collections
	transactionTypePayBill = "CustomerPayBillOnline"

	timestampLayout = "20060102150405"

	accessTokenCacheKey = "mpesa:access_token"
)

// Client talks to the Daraja REST API: a token endpoint guarded by basic
// credentials and an STK push endpoint guarded by the bearer token.
type Client struct {
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string

	TokenURL   string
	STKPushURL string

	HTTPClient *http.Client

	// CacheTokens enables Redis-backed reuse of the bearer token
	CacheTokens bool

	// Now is swappable for deterministic password/timestamp tests
	Now func() time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// STKPushResponse is the gateway's synchronous answer to a push request.
// CheckoutRequestID is the correlation token the asynchronous callback
// will carry back.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// Accepted reports whether the gateway accepted the push for processing.
func (r *STKPushResponse) Accepted() bool {
	return r.ResponseCode == "0"
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

func NewClientFromEnv() *Client {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	callbackURL := strings.TrimSpace(env.GetEnv("MPESA_CALLBACK_URL", ""))
	if callbackURL == "" && base != "" {
		callbackURL = base + "/billing/mpesa/callback"
	}

	return &Client{
		ConsumerKey:    strings.TrimSpace(env.GetEnv("MPESA_CONSUMER_KEY", "")),
		ConsumerSecret: strings.TrimSpace(env.GetEnv("MPESA_CONSUMER_SECRET", "")),
		ShortCode:      strings.TrimSpace(env.GetEnv("MPESA_SHORTCODE", "")),
		Passkey:        strings.TrimSpace(env.GetEnv("MPESA_PASSKEY", "")),
		CallbackURL:    callbackURL,
		TokenURL:       strings.TrimSpace(env.GetEnv("MPESA_TOKEN_URL", defaultTokenURL)),
		STKPushURL:     strings.TrimSpace(env.GetEnv("MPESA_STK_PUSH_URL", defaultSTKPushURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		CacheTokens: true,
		Now:         time.Now,
	}
}

// Password derives the push credential for the given timestamp:
// base64(shortcode + passkey + timestamp).
func (c *Client) Password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.ShortCode + c.Passkey + timestamp))
}

// AccessToken fetches a bearer token from the gateway, reusing a cached one
// until shortly before expiry. Cache failures degrade to a fresh fetch.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.ConsumerKey) == "" || strings.TrimSpace(c.ConsumerSecret) == "" {
		return "", errors.New("MPESA_CONSUMER_KEY/MPESA_CONSUMER_SECRET are not configured")
	}

	if c.CacheTokens {
		if token, err := cache.Get(accessTokenCacheKey); err == nil && token != "" {
			return token, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.TokenURL, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.ConsumerKey, c.ConsumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("mpesa token request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out tokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return "", errors.New("mpesa token response returned empty access_token")
	}

	// Daraja reports expires_in as a string of seconds, typically "3599"
	if c.CacheTokens {
		if secs, err := strconv.Atoi(strings.TrimSpace(out.ExpiresIn)); err == nil && secs > 60 {
			_ = cache.Set(accessTokenCacheKey, out.AccessToken, time.Duration(secs-60)*time.Second)
		}
	}

	return out.AccessToken, nil
}

// STKPush submits a collection request for the given payer phone and amount.
// Transport and non-2xx failures are returned as errors; a 2xx response is
// decoded and handed back for the caller to inspect ResponseCode.
func (c *Client) STKPush(ctx context.Context, phone string, amount decimal.Decimal, accountRef, description string) (*STKPushResponse, error) {
	if strings.TrimSpace(c.ShortCode) == "" || strings.TrimSpace(c.Passkey) == "" {
		return nil, errors.New("MPESA_SHORTCODE/MPESA_PASSKEY are not configured")
	}
	if strings.TrimSpace(c.CallbackURL) == "" {
		return nil, errors.New("MPESA_CALLBACK_URL is not configured")
	}
	if err := ValidatePhoneNumber(phone); err != nil {
		return nil, err
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := c.Now().Format(timestampLayout)
	payload := stkPushRequest{
		BusinessShortCode: c.ShortCode,
		Password:          c.Password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   transactionTypePayBill,
		Amount:            amount.Round(0).String(),
		PartyA:            phone,
		PartyB:            c.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       c.CallbackURL,
		AccountReference:  accountRef,
		TransactionDesc:   description,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.STKPushURL, strings.NewReader(string(raw)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mpesa stk push failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out STKPushResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.CheckoutRequestID) == "" && out.Accepted() {
		return nil, errors.New("mpesa stk push response missing CheckoutRequestID")
	}
	return &out, nil
}
