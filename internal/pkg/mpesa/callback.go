package mpesa

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ResultCodeSuccess is the gateway result code for a completed payment.
const ResultCodeSuccess = 0

// Metadata item names carried in a successful callback.
const (
	itemAmount          = "Amount"
	itemReceiptNumber   = "MpesaReceiptNumber"
	itemTransactionDate = "TransactionDate"
	itemPhoneNumber     = "PhoneNumber"
)

// callbackEnvelope mirrors the nested JSON the gateway posts:
// {Body: {stkCallback: {...}}}.
type callbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []metadataItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// metadataItem values arrive untyped: amounts and dates as numbers,
// receipts as strings, phone numbers as either.
type metadataItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// CallbackResult is the flattened outcome of an STK callback.
type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string

	Amount          decimal.Decimal
	ReceiptNumber   string
	TransactionDate *time.Time
	PhoneNumber     string
}

// Success reports whether the gateway confirmed the payment.
func (r *CallbackResult) Success() bool {
	return r.ResultCode == ResultCodeSuccess
}

// ParseCallback decodes the webhook body into a CallbackResult. Metadata is
// only extracted for successful results; failed callbacks carry none.
func ParseCallback(raw []byte) (*CallbackResult, error) {
	var envelope callbackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("invalid stk callback payload: %w", err)
	}

	cb := envelope.Body.StkCallback
	if strings.TrimSpace(cb.CheckoutRequestID) == "" {
		return nil, errors.New("stk callback missing CheckoutRequestID")
	}

	result := &CallbackResult{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}

	if !result.Success() {
		return result, nil
	}

	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case itemAmount:
			if amount, err := decimalFromValue(item.Value); err == nil {
				result.Amount = amount
			}
		case itemReceiptNumber:
			result.ReceiptNumber = stringFromValue(item.Value)
		case itemTransactionDate:
			if ts, err := timeFromValue(item.Value); err == nil {
				result.TransactionDate = ts
			}
		case itemPhoneNumber:
			result.PhoneNumber = stringFromValue(item.Value)
		}
	}

	if result.ReceiptNumber == "" {
		return nil, errors.New("successful stk callback missing MpesaReceiptNumber")
	}

	return result, nil
}

func decimalFromValue(v interface{}) (decimal.Decimal, error) {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), nil
	case string:
		return decimal.NewFromString(val)
	case json.Number:
		return decimal.NewFromString(val.String())
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount value %T", v)
	}
}

func stringFromValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return decimal.NewFromFloat(val).String()
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

func timeFromValue(v interface{}) (*time.Time, error) {
	s := stringFromValue(v)
	if s == "" {
		return nil, errors.New("empty transaction date")
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
