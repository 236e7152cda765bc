package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account
type User struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet         bool      `json:"password_set" db:"password_set"`
	OAuthProvider       string    `json:"oauth_provider,omitempty"`
	LinkedInID          *string   `json:"linkedin_id,omitempty"`
	LinkedInAccessToken string    `json:"-" db:"linkedin_access_token"`
	SubscriptionPlan    string    `json:"subscription_plan"`
	IsActive            bool      `json:"is_active"`
	IsVerified          bool      `json:"is_verified"`
	ProfilePicture      string    `json:"profile_picture,omitempty"`
	StripeCustomerID    string    `json:"-" db:"stripe_customer_id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
