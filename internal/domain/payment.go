package domain

import (
	"fmt"
	"math"
	"time"
)

// PaymentOption how the client chose to pay
type PaymentOption string

const (
	PaymentOnsite  PaymentOption = "onsite"
	PaymentFull    PaymentOption = "full"
	PaymentDeposit PaymentOption = "deposit"
)

// IsValid reports whether the option is one of the known values
func (o PaymentOption) IsValid() bool {
	switch o {
	case PaymentOnsite, PaymentFull, PaymentDeposit:
		return true
	}
	return false
}

// PaymentStatus is the persisted discriminator of PaymentState
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentState is a closed set of payment states. Each variant carries only
// the fields that make sense for it, so a refund date on an unpaid
// appointment cannot be expressed.
type PaymentState interface {
	Status() PaymentStatus
	paymentState()
}

// PaymentPending nothing has been collected yet
type PaymentPending struct{}

// PaymentPaid the gateway reported a successful charge
type PaymentPaid struct {
	Reference string
	PaidAt    time.Time
}

// PaymentFailed the gateway reported a failed charge
type PaymentFailed struct {
	Reference string
}

// PaymentRefunded a paid appointment was cancelled
type PaymentRefunded struct {
	Reference  string
	PaidAt     time.Time
	RefundedAt time.Time
}

func (PaymentPending) Status() PaymentStatus  { return PaymentStatusPending }
func (PaymentPaid) Status() PaymentStatus     { return PaymentStatusPaid }
func (PaymentFailed) Status() PaymentStatus   { return PaymentStatusFailed }
func (PaymentRefunded) Status() PaymentStatus { return PaymentStatusRefunded }

func (PaymentPending) paymentState()  {}
func (PaymentPaid) paymentState()     {}
func (PaymentFailed) paymentState()   {}
func (PaymentRefunded) paymentState() {}

// Payment of an appointment
type Payment struct {
	Option PaymentOption
	Amount float64
	State  PaymentState
}

// NewPayment creates a pending payment with the amount derived from price
func NewPayment(option PaymentOption, price float64) Payment {
	return Payment{
		Option: option,
		Amount: CalculatePaymentAmount(option, price),
		State:  PaymentPending{},
	}
}

// CalculatePaymentAmount derives the amount due for option.
// onsite 0, full the price, deposit 30% rounded to the nearest unit.
func CalculatePaymentAmount(option PaymentOption, price float64) float64 {
	switch option {
	case PaymentFull:
		return price
	case PaymentDeposit:
		return math.Round(price * DepositRate)
	default:
		return 0
	}
}

// Status returns the discriminator of the current state
func (p Payment) Status() PaymentStatus {
	if p.State == nil {
		return PaymentStatusPending
	}
	return p.State.Status()
}

// IsPaid reports whether the payment is in the paid state
func (p Payment) IsPaid() bool {
	return p.Status() == PaymentStatusPaid
}

// MarkPaid moves the payment to paid
func (p *Payment) MarkPaid(reference string, at time.Time) {
	p.State = PaymentPaid{Reference: reference, PaidAt: at}
}

// Refund flips a paid payment to refunded. Other states are left untouched
// and false is returned.
func (p *Payment) Refund(at time.Time) bool {
	paid, ok := p.State.(PaymentPaid)
	if !ok {
		return false
	}
	p.State = PaymentRefunded{Reference: paid.Reference, PaidAt: paid.PaidAt, RefundedAt: at}
	return true
}

// Reference returns the gateway reference, if the state carries one
func (p Payment) Reference() *string {
	var ref string
	switch s := p.State.(type) {
	case PaymentPaid:
		ref = s.Reference
	case PaymentFailed:
		ref = s.Reference
	case PaymentRefunded:
		ref = s.Reference
	}
	if ref == "" {
		return nil
	}
	return &ref
}

// PaidAt returns the time of the charge, if any
func (p Payment) PaidAt() *time.Time {
	switch s := p.State.(type) {
	case PaymentPaid:
		return &s.PaidAt
	case PaymentRefunded:
		if s.PaidAt.IsZero() {
			return nil
		}
		return &s.PaidAt
	}
	return nil
}

// RefundedAt returns the time of the refund, if any
func (p Payment) RefundedAt() *time.Time {
	if s, ok := p.State.(PaymentRefunded); ok {
		return &s.RefundedAt
	}
	return nil
}

// RestorePaymentState rebuilds a state from its flattened storage form
func RestorePaymentState(status PaymentStatus, reference *string, paidAt, refundedAt *time.Time) (PaymentState, error) {
	ref := ""
	if reference != nil {
		ref = *reference
	}

	switch status {
	case PaymentStatusPending, "":
		return PaymentPending{}, nil
	case PaymentStatusPaid:
		if paidAt == nil {
			return nil, fmt.Errorf("payment: paid state without paid_at")
		}
		return PaymentPaid{Reference: ref, PaidAt: *paidAt}, nil
	case PaymentStatusFailed:
		return PaymentFailed{Reference: ref}, nil
	case PaymentStatusRefunded:
		if refundedAt == nil {
			return nil, fmt.Errorf("payment: refunded state without refunded_at")
		}
		state := PaymentRefunded{Reference: ref, RefundedAt: *refundedAt}
		if paidAt != nil {
			state.PaidAt = *paidAt
		}
		return state, nil
	default:
		return nil, fmt.Errorf("payment: unknown status %q", status)
	}
}
