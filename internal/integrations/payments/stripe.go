// Package payments implements the payment collaborator. The core never
// charges; it creates an intent and reacts to the processor's callback.
package payments

import (
	"context"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

type StripeGateway struct{}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

// CreateIntent returns the client secret the booking client uses to
// complete payment. The appointment id travels in intent metadata so
// the processor callback can be correlated back to the booking.
func (g *StripeGateway) CreateIntent(ctx context.Context, appointmentID uint, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("appointment_id", strconv.FormatUint(uint64(appointmentID), 10))

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}
