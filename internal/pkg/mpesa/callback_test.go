package mpesa

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseCallback_Success(t *testing.T) {
	raw := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{ "Name": "Amount", "Value": 1500 },
						{ "Name": "MpesaReceiptNumber", "Value": "ABC123" },
						{ "Name": "TransactionDate", "Value": 20250301120000 },
						{ "Name": "PhoneNumber", "Value": 254712345678 }
					]
				}
			}
		}
	}`)

	result, err := ParseCallback(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if !result.Success() {
		t.Fatalf("expected successful result")
	}
	if result.CheckoutRequestID != "ws_CO_191220191020363925" {
		t.Fatalf("unexpected checkout request id %q", result.CheckoutRequestID)
	}
	if !result.Amount.Equal(decimal.RequireFromString("1500")) {
		t.Fatalf("expected amount 1500, got %s", result.Amount)
	}
	if result.ReceiptNumber != "ABC123" {
		t.Fatalf("expected receipt ABC123, got %q", result.ReceiptNumber)
	}
	if result.PhoneNumber != "254712345678" {
		t.Fatalf("expected phone 254712345678, got %q", result.PhoneNumber)
	}
	if result.TransactionDate == nil {
		t.Fatalf("expected transaction date to be parsed")
	}
}

func TestParseCallback_Failure(t *testing.T) {
	raw := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 1032,
				"ResultDesc": "Request cancelled by user."
			}
		}
	}`)

	result, err := ParseCallback(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if result.Success() {
		t.Fatalf("expected failed result")
	}
	if result.ResultDesc != "Request cancelled by user." {
		t.Fatalf("unexpected result desc %q", result.ResultDesc)
	}
	if result.ReceiptNumber != "" {
		t.Fatalf("failed callback must not carry a receipt")
	}
}

func TestParseCallback_Malformed(t *testing.T) {
	if _, err := ParseCallback([]byte(`{"not":"a callback"`)); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
	if _, err := ParseCallback([]byte(`{"Body":{"stkCallback":{"ResultCode":0}}}`)); err == nil {
		t.Fatalf("expected error for missing CheckoutRequestID")
	}
}

func TestParseCallback_MissingReceipt(t *testing.T) {
	raw := []byte(`{
		"Body": {
			"stkCallback": {
				"CheckoutRequestID": "ws_CO_1",
				"ResultCode": 0,
				"ResultDesc": "ok",
				"CallbackMetadata": { "Item": [ { "Name": "Amount", "Value": 100 } ] }
			}
		}
	}`)

	if _, err := ParseCallback(raw); err == nil {
		t.Fatalf("expected error for success callback without receipt number")
	}
}

func TestParseCallback_StringValues(t *testing.T) {
	raw := []byte(`{
		"Body": {
			"stkCallback": {
				"CheckoutRequestID": "ws_CO_2",
				"ResultCode": 0,
				"ResultDesc": "ok",
				"CallbackMetadata": {
					"Item": [
						{ "Name": "Amount", "Value": "1500.00" },
						{ "Name": "MpesaReceiptNumber", "Value": "XYZ789" },
						{ "Name": "PhoneNumber", "Value": "254700000000" }
					]
				}
			}
		}
	}`)

	result, err := ParseCallback(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if !result.Amount.Equal(decimal.RequireFromString("1500.00")) {
		t.Fatalf("expected amount 1500.00, got %s", result.Amount)
	}
	if result.PhoneNumber != "254700000000" {
		t.Fatalf("unexpected phone %q", result.PhoneNumber)
	}
}
