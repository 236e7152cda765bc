package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const subscriptionColumns = `id, user_id, plan_type, stripe_customer_id,
	stripe_subscription_id, stripe_price_id, status, current_period_start,
	current_period_end, cancel_at_period_end, canceled_at, trial_start,
	trial_end, created_at, updated_at`

func scanSubscription(row pgx.Row) (*Subscription, error) {
	var s Subscription
	err := row.Scan(&s.ID, &s.UserID, &s.PlanType, &s.StripeCustomerID,
		&s.StripeSubscriptionID, &s.StripePriceID, &s.Status,
		&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.CancelAtPeriodEnd,
		&s.CanceledAt, &s.TrialStart, &s.TrialEnd, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSubscriptionByUser retrieves a user's subscription record, or nil
func (db *DB) GetSubscriptionByUser(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	sub, err := scanSubscription(db.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1`, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

// GetSubscriptionByStripeID retrieves a subscription by its Stripe reference, or nil
func (db *DB) GetSubscriptionByStripeID(ctx context.Context, stripeSubscriptionID string) (*Subscription, error) {
	sub, err := scanSubscription(db.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE stripe_subscription_id = $1`,
		stripeSubscriptionID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription by stripe id: %w", err)
	}
	return sub, nil
}

// UpsertSubscription writes Stripe subscription state, one row per user.
// Webhook deliveries can repeat; replaying the same event converges on
// the same stored state.
func (db *DB) UpsertSubscription(ctx context.Context, input *SubscriptionUpsertInput) (*Subscription, error) {
	sub, err := scanSubscription(db.pool.QueryRow(ctx,
		`INSERT INTO subscriptions (user_id, plan_type, stripe_customer_id,
		        stripe_subscription_id, stripe_price_id, status,
		        current_period_start, current_period_end, cancel_at_period_end,
		        canceled_at, trial_start, trial_end)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (user_id) DO UPDATE SET
		        plan_type = EXCLUDED.plan_type,
		        stripe_customer_id = EXCLUDED.stripe_customer_id,
		        stripe_subscription_id = EXCLUDED.stripe_subscription_id,
		        stripe_price_id = EXCLUDED.stripe_price_id,
		        status = EXCLUDED.status,
		        current_period_start = EXCLUDED.current_period_start,
		        current_period_end = EXCLUDED.current_period_end,
		        cancel_at_period_end = EXCLUDED.cancel_at_period_end,
		        canceled_at = EXCLUDED.canceled_at,
		        trial_start = EXCLUDED.trial_start,
		        trial_end = EXCLUDED.trial_end,
		        updated_at = NOW()
		 RETURNING `+subscriptionColumns,
		input.UserID, input.PlanType, input.StripeCustomerID,
		input.StripeSubscriptionID, input.StripePriceID, input.Status,
		input.CurrentPeriodStart, input.CurrentPeriodEnd, input.CancelAtPeriodEnd,
		input.CanceledAt, input.TrialStart, input.TrialEnd))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return sub, nil
}

// MarkSubscriptionCanceled flags a subscription to end at the period boundary
func (db *DB) MarkSubscriptionCanceled(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE subscriptions SET cancel_at_period_end = TRUE, canceled_at = NOW(),
		        updated_at = NOW()
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark subscription canceled: %w", err)
	}
	return nil
}
