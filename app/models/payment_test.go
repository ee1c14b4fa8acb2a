package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewPendingPayment(t *testing.T) {
	inv := &Invoice{ID: 7, Amount: decimal.RequireFromString("1500.00")}

	p := NewPendingPayment(inv, "254712345678", "mr-1", "ws_CO_123")

	if p.InvoiceID != 7 {
		t.Fatalf("expected invoice id 7, got %d", p.InvoiceID)
	}
	if !p.AmountPaid.Equal(inv.Amount) {
		t.Fatalf("expected amount_paid %s, got %s", inv.Amount, p.AmountPaid)
	}
	if p.MpesaCode != "PENDING-ws_CO_123" {
		t.Fatalf("unexpected placeholder code %q", p.MpesaCode)
	}
	if p.CheckoutRequestID != "ws_CO_123" {
		t.Fatalf("unexpected checkout request id %q", p.CheckoutRequestID)
	}
	if p.IsSettled() {
		t.Fatalf("pending payment must not report settled")
	}
}

func TestPaymentSettle(t *testing.T) {
	p := &Payment{MpesaCode: "PENDING-ws_CO_123", AmountPaid: decimal.RequireFromString("1500.00")}
	txDate := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	p.Settle("ABC123", decimal.RequireFromString("1500.00"), &txDate)

	if !p.IsSettled() {
		t.Fatalf("expected payment to be settled")
	}
	if p.MpesaCode != "ABC123" {
		t.Fatalf("expected receipt ABC123, got %q", p.MpesaCode)
	}
	if p.TransactionDate == nil || !p.TransactionDate.Equal(txDate) {
		t.Fatalf("transaction date not recorded")
	}
}

func TestInvoiceIsPayable(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{InvoiceStatusPending, true},
		{InvoiceStatusPaid, false},
		{InvoiceStatusOverdue, false},
	}

	for _, tt := range tests {
		inv := &Invoice{Status: tt.status}
		if got := inv.IsPayable(); got != tt.want {
			t.Fatalf("IsPayable() with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}
