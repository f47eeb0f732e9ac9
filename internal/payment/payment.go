// Package payment adapts third-party payment confirmations into the
// ledger's payment sub-record.  The provider SDKs are external
// collaborators: their order-create/approve/capture protocol happens
// elsewhere, and this package only consumes the confirmation shape they
// hand back.
package payment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cottagecooking/class-booking/internal/model"
)

// PayPalOrder mirrors the subset of a captured PayPal order the site
// consumes: transaction id, status, captured amount and payer identity.
type PayPalOrder struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Amount struct {
			Value        string `json:"value"`
			CurrencyCode string `json:"currency_code"`
		} `json:"amount"`
	} `json:"purchase_units"`
	Payer struct {
		PayerID      string `json:"payer_id"`
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// FromPayPal validates a captured order and converts it into a payment
// record.  Anything other than a COMPLETED capture with a parseable
// amount is an ErrPaymentProvider passthrough; no retry is attempted.
func FromPayPal(order PayPalOrder) (*model.Payment, error) {
	if !strings.EqualFold(order.Status, "completed") {
		return nil, fmt.Errorf("%w: paypal order status %q", model.ErrPaymentProvider, order.Status)
	}
	if order.ID == "" || len(order.PurchaseUnits) == 0 {
		return nil, fmt.Errorf("%w: incomplete paypal order payload", model.ErrPaymentProvider)
	}
	amount, err := strconv.ParseFloat(order.PurchaseUnits[0].Amount.Value, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable amount %q", model.ErrPaymentProvider, order.PurchaseUnits[0].Amount.Value)
	}
	return &model.Payment{
		TransactionID: order.ID,
		Status:        "COMPLETED",
		Amount:        amount,
		PayerEmail:    strings.ToLower(order.Payer.EmailAddress),
		Method:        "paypal",
		PaidAt:        time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// SimulateApplePay stands in for the Apple Pay merchant flow, which the
// site never performs against a real backend.  It mints a transaction id
// and reports an instantly completed payment.
func SimulateApplePay(amount float64, payerEmail string) *model.Payment {
	return &model.Payment{
		TransactionID: "applepay-" + uuid.NewString(),
		Status:        "COMPLETED",
		Amount:        amount,
		PayerEmail:    strings.ToLower(strings.TrimSpace(payerEmail)),
		Method:        "applepay",
		PaidAt:        time.Now().UTC().Format(time.RFC3339),
	}
}
