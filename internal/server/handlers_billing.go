package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/stripe/stripe-go/v78"

	"github.com/jobalign/jobalign-api/internal/billing"
	"github.com/jobalign/jobalign-api/internal/db"
	"github.com/jobalign/jobalign-api/internal/server/middleware"
)

// maxWebhookBytes bounds a Stripe webhook payload
const maxWebhookBytes = 1 << 20

// CheckoutRequest is the body for POST /api/billing/checkout
type CheckoutRequest struct {
	PriceID    string `json:"price_id" validate:"required"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

// handleBillingPrices lists the active recurring prices customers can buy
func (s *Server) handleBillingPrices(w http.ResponseWriter, _ *http.Request) {
	if !s.billing.Configured() {
		s.errorResponse(w, http.StatusServiceUnavailable, "Billing is not configured")
		return
	}

	prices, err := s.billing.ListPrices()
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Failed to list prices: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"prices": prices,
		"count":  len(prices),
	})
}

// handleBillingCheckout creates a subscription checkout session for the
// caller, creating their Stripe customer on first use.
func (s *Server) handleBillingCheckout(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if !s.billing.Configured() {
		s.errorResponse(w, http.StatusServiceUnavailable, "Billing is not configured")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	customerID, err := s.billing.EnsureCustomer(user)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Failed to create customer: "+err.Error())
		return
	}
	if user.StripeCustomerID == "" {
		if err := s.store.SetStripeCustomerID(r.Context(), userID, customerID); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
	}

	sessionID, url, err := s.billing.CreateCheckoutSession(customerID, req.PriceID, req.SuccessURL, req.CancelURL)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Failed to create checkout session: "+err.Error())
		return
	}

	s.logActivity(r, userID, "checkout_started", "Started subscription checkout", map[string]any{
		"price_id": req.PriceID,
	})

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"url":        url,
	})
}

// handleBillingSubscription returns the caller's stored subscription.
// Users who never subscribed get the free plan.
func (s *Server) handleBillingSubscription(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sub, err := s.store.GetSubscriptionByUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if sub == nil {
		s.jsonResponse(w, http.StatusOK, map[string]string{
			"plan_type": db.PlanFree,
			"status":    "none",
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, sub)
}

// handleBillingCancel flags the caller's subscription to stop renewing
func (s *Server) handleBillingCancel(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sub, err := s.store.GetSubscriptionByUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if sub == nil || sub.StripeSubscriptionID == "" {
		s.errorResponse(w, http.StatusNotFound, "No active subscription")
		return
	}

	if err := s.billing.CancelAtPeriodEnd(sub.StripeSubscriptionID); err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Failed to cancel subscription: "+err.Error())
		return
	}
	if err := s.store.MarkSubscriptionCanceled(r.Context(), userID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.logActivity(r, userID, "subscription_canceled", "Canceled subscription at period end", map[string]any{
		"stripe_subscription_id": sub.StripeSubscriptionID,
	})

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cancel_at_period_end"})
}

// handleBillingWebhook processes Stripe events. Signature failures are
// 400; everything handled (or deliberately ignored) is 200 so Stripe
// stops retrying.
func (s *Server) handleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read payload")
		return
	}

	event, err := s.billing.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid webhook signature")
		return
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		err = s.applySubscriptionEvent(r, event.Data.Raw, false)
	case "customer.subscription.deleted":
		err = s.applySubscriptionEvent(r, event.Data.Raw, true)
	case "invoice.payment_succeeded", "invoice.payment_failed":
		err = s.recordInvoiceEvent(r, string(event.Type), event.Data.Raw)
	case "customer.created":
		// Customer creation is already recorded at checkout time
	default:
		log.Printf("[billing] ignoring webhook event %s", event.Type)
	}
	if err != nil {
		log.Printf("[billing] failed to handle %s: %v", event.Type, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to process event")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"received": "true"})
}

// applySubscriptionEvent syncs a Stripe subscription object into our
// subscription row and the user's plan. Upserts make replayed events
// idempotent.
func (s *Server) applySubscriptionEvent(r *http.Request, raw json.RawMessage, deleted bool) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return err
	}
	if sub.Customer == nil {
		return nil
	}

	user, err := s.store.GetUserByStripeCustomerID(r.Context(), sub.Customer.ID)
	if err != nil {
		return err
	}
	if user == nil {
		log.Printf("[billing] no user for stripe customer %s", sub.Customer.ID)
		return nil
	}

	plan := db.PlanFree
	if !deleted {
		var price *stripe.Price
		if sub.Items != nil && len(sub.Items.Data) > 0 {
			price = sub.Items.Data[0].Price
		}
		plan = billing.PlanForPrice(price)
	}

	input := billing.SubscriptionState(&sub, plan)
	input.UserID = user.ID
	if deleted {
		input.Status = "canceled"
	}

	if _, err := s.store.UpsertSubscription(r.Context(), input); err != nil {
		return err
	}
	if err := s.store.UpdateSubscriptionPlan(r.Context(), user.ID, plan); err != nil {
		return err
	}

	s.logActivity(r, user.ID, "subscription_updated", "Subscription moved to plan "+plan, map[string]any{
		"stripe_subscription_id": sub.ID,
		"status":                 input.Status,
	})
	return nil
}

// recordInvoiceEvent logs payment outcomes against the owning user
func (s *Server) recordInvoiceEvent(r *http.Request, eventType string, raw json.RawMessage) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(raw, &invoice); err != nil {
		return err
	}
	if invoice.Customer == nil {
		return nil
	}

	user, err := s.store.GetUserByStripeCustomerID(r.Context(), invoice.Customer.ID)
	if err != nil || user == nil {
		return err
	}

	s.logActivity(r, user.ID, eventType, "Stripe invoice event", map[string]any{
		"invoice_id":  invoice.ID,
		"amount_due":  invoice.AmountDue,
		"amount_paid": invoice.AmountPaid,
	})
	return nil
}
