// Package billing integrates Stripe subscriptions: customers, checkout
// sessions, plan prices and webhook verification.
package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/jobalign/jobalign-api/internal/db"
)

// Service talks to Stripe on behalf of the billing handlers
type Service struct {
	api           *client.API
	webhookSecret string
}

// NewService creates a Stripe-backed billing service. With an empty key
// the service reports itself unconfigured and every call fails cleanly.
func NewService(secretKey, webhookSecret string) *Service {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Service{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

// Configured reports whether a Stripe secret key is present
func (s *Service) Configured() bool {
	return s.api.Customers != nil && s.api.Customers.Key != ""
}

// PriceInfo is one subscribable plan price for display
type PriceInfo struct {
	ID          string `json:"id"`
	ProductName string `json:"product_name"`
	Nickname    string `json:"nickname,omitempty"`
	UnitAmount  int64  `json:"unit_amount"`
	Currency    string `json:"currency"`
	Interval    string `json:"interval"`
	Plan        string `json:"plan"`
}

// EnsureCustomer returns the user's Stripe customer ID, creating the
// customer on first use.
func (s *Service) EnsureCustomer(user *db.User) (string, error) {
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.Name),
	}
	params.AddMetadata("user_id", user.ID.String())

	customer, err := s.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create stripe customer: %w", err)
	}
	return customer.ID, nil
}

// ListPrices returns the active recurring prices customers can subscribe to
func (s *Service) ListPrices() ([]PriceInfo, error) {
	params := &stripe.PriceListParams{
		Active: stripe.Bool(true),
		Type:   stripe.String(string(stripe.PriceTypeRecurring)),
	}
	params.AddExpand("data.product")

	var prices []PriceInfo
	iter := s.api.Prices.List(params)
	for iter.Next() {
		p := iter.Price()
		info := PriceInfo{
			ID:         p.ID,
			Nickname:   p.Nickname,
			UnitAmount: p.UnitAmount,
			Currency:   string(p.Currency),
			Plan:       PlanForPrice(p),
		}
		if p.Product != nil {
			info.ProductName = p.Product.Name
		}
		if p.Recurring != nil {
			info.Interval = string(p.Recurring.Interval)
		}
		prices = append(prices, info)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	return prices, nil
}

// CreateCheckoutSession starts a hosted subscription checkout and
// returns the session ID and its redirect URL.
func (s *Service) CreateCheckoutSession(customerID, priceID, successURL, cancelURL string) (string, string, error) {
	session, err := s.api.CheckoutSessions.New(&stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session.ID, session.URL, nil
}

// CancelAtPeriodEnd flags a subscription to stop renewing. Access
// continues until the paid period runs out.
func (s *Service) CancelAtPeriodEnd(subscriptionID string) error {
	_, err := s.api.Subscriptions.Update(subscriptionID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return nil
}

// VerifyWebhook checks the Stripe signature and decodes the event
func (s *Service) VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signatureHeader, s.webhookSecret)
}

// PlanForPrice maps a Stripe price onto our plan names. Prices declare
// their plan in metadata; nickname and product name are fallbacks.
func PlanForPrice(p *stripe.Price) string {
	if p == nil {
		return db.PlanFree
	}
	candidates := []string{p.Metadata["plan"], p.Nickname}
	if p.Product != nil {
		candidates = append(candidates, p.Product.Name)
	}
	for _, c := range candidates {
		switch {
		case strings.Contains(strings.ToLower(c), "enterprise"):
			return db.PlanEnterprise
		case strings.Contains(strings.ToLower(c), "premium"):
			return db.PlanPremium
		}
	}
	return db.PlanPremium
}

// SubscriptionState converts a Stripe subscription object into our
// stored representation for webhook upserts.
func SubscriptionState(sub *stripe.Subscription, plan string) *db.SubscriptionUpsertInput {
	input := &db.SubscriptionUpsertInput{
		PlanType:             plan,
		StripeSubscriptionID: sub.ID,
		Status:               string(sub.Status),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
	}
	if sub.Customer != nil {
		input.StripeCustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		input.StripePriceID = sub.Items.Data[0].Price.ID
	}
	input.CurrentPeriodStart = unixTime(sub.CurrentPeriodStart)
	input.CurrentPeriodEnd = unixTime(sub.CurrentPeriodEnd)
	input.CanceledAt = unixTime(sub.CanceledAt)
	input.TrialStart = unixTime(sub.TrialStart)
	input.TrialEnd = unixTime(sub.TrialEnd)
	return input
}

func unixTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
