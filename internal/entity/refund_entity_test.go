package entity

import "testing"

func TestRefundCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from RefundStatus
		to   RefundStatus
		want bool
	}{
		{"pending to processing", RefundStatusPending, RefundStatusProcessing, true},
		{"pending to completed", RefundStatusPending, RefundStatusCompleted, true},
		{"pending to failed", RefundStatusPending, RefundStatusFailed, true},
		{"processing to completed", RefundStatusProcessing, RefundStatusCompleted, true},
		{"processing to failed", RefundStatusProcessing, RefundStatusFailed, true},
		{"processing to pending", RefundStatusProcessing, RefundStatusPending, false},
		{"failed to completed (wallet fallback)", RefundStatusFailed, RefundStatusCompleted, true},
		{"failed to processing", RefundStatusFailed, RefundStatusProcessing, false},
		{"failed to failed", RefundStatusFailed, RefundStatusFailed, false},
		{"completed is immutable", RefundStatusCompleted, RefundStatusFailed, false},
		{"completed to pending", RefundStatusCompleted, RefundStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Refund{Status: tt.from}
			if got := r.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestRefundTransitionTo(t *testing.T) {
	r := &Refund{Status: RefundStatusPending}

	if err := r.TransitionTo(RefundStatusProcessing); err != nil {
		t.Fatalf("TransitionTo(processing) = %v", err)
	}
	if r.Status != RefundStatusProcessing {
		t.Errorf("status = %s, want processing", r.Status)
	}

	if err := r.TransitionTo(RefundStatusPending); err == nil {
		t.Error("expected error for processing -> pending")
	}
	if r.Status != RefundStatusProcessing {
		t.Errorf("status mutated on a rejected transition: %s", r.Status)
	}
}
