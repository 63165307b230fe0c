package entity

import (
	"testing"

	"github.com/google/uuid"
)

func TestOrderStatusCancellable(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPending, true},
		{OrderStatusConfirmed, true},
		{OrderStatusProcessing, true},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
		{OrderStatus("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Cancellable(); got != tt.want {
				t.Errorf("Cancellable(%s) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestOrderCapturedAmount(t *testing.T) {
	captured := 85.50
	zero := 0.0

	tests := []struct {
		name          string
		total         float64
		paymentAmount *float64
		want          float64
	}{
		{name: "captured amount set", total: 100, paymentAmount: &captured, want: 85.50},
		{name: "no captured amount falls back to total", total: 100, paymentAmount: nil, want: 100},
		{name: "explicit zero capture means nothing captured", total: 100, paymentAmount: &zero, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Total: tt.total, PaymentAmount: tt.paymentAmount}
			if got := o.CapturedAmount(); got != tt.want {
				t.Errorf("CapturedAmount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderIsParty(t *testing.T) {
	buyer := uuid.New()
	vendor := uuid.New()
	o := &Order{UserId: buyer, VendorId: vendor}

	if !o.IsParty(buyer) {
		t.Error("buyer should be a party to the order")
	}
	if !o.IsParty(vendor) {
		t.Error("vendor should be a party to the order")
	}
	if o.IsParty(uuid.New()) {
		t.Error("a stranger should not be a party to the order")
	}
}
