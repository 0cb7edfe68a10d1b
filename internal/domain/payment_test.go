package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePaymentAmount(t *testing.T) {
	tests := []struct {
		name   string
		option PaymentOption
		price  float64
		want   float64
	}{
		{"full", PaymentFull, 150, 150},
		{"deposit", PaymentDeposit, 150, 45},
		{"onsite", PaymentOnsite, 150, 0},
		{"deposit rounds down", PaymentDeposit, 99, 30},
		{"free service", PaymentFull, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatePaymentAmount(tt.option, tt.price))
		})
	}
}

func TestPayment_Transitions(t *testing.T) {
	paidAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	refundedAt := paidAt.Add(48 * time.Hour)

	p := NewPayment(PaymentFull, 200)
	assert.Equal(t, PaymentStatusPending, p.Status())
	assert.Nil(t, p.PaidAt())
	assert.False(t, p.Refund(refundedAt), "pending payment cannot be refunded")

	p.MarkPaid("pi_123", paidAt)
	assert.True(t, p.IsPaid())
	require.NotNil(t, p.Reference())
	assert.Equal(t, "pi_123", *p.Reference())

	assert.True(t, p.Refund(refundedAt))
	assert.Equal(t, PaymentStatusRefunded, p.Status())
	require.NotNil(t, p.RefundedAt())
	assert.Equal(t, refundedAt, *p.RefundedAt())
	assert.Equal(t, paidAt, *p.PaidAt())
	assert.Equal(t, "pi_123", *p.Reference())
}

func TestRestorePaymentState(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ref := "pi_1"

	state, err := RestorePaymentState(PaymentStatusPending, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, PaymentPending{}, state)

	state, err = RestorePaymentState(PaymentStatusPaid, &ref, &at, nil)
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid{Reference: ref, PaidAt: at}, state)

	_, err = RestorePaymentState(PaymentStatusPaid, &ref, nil, nil)
	assert.Error(t, err)

	_, err = RestorePaymentState(PaymentStatusRefunded, nil, nil, nil)
	assert.Error(t, err)

	_, err = RestorePaymentState("bogus", nil, nil, nil)
	assert.Error(t, err)
}
