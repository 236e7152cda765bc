package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, COALESCE(password_hash, ''), password_set,
	oauth_provider, linkedin_id, linkedin_access_token, subscription_plan,
	is_active, is_verified, profile_picture, stripe_customer_id, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.PasswordSet,
		&u.OAuthProvider, &u.LinkedInID, &u.LinkedInAccessToken, &u.SubscriptionPlan,
		&u.IsActive, &u.IsVerified, &u.ProfilePicture, &u.StripeCustomerID,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user and returns its ID
func (db *DB) CreateUser(ctx context.Context, name, email string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`,
		name, email,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns nil when not found.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email. Returns nil when not found.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByLinkedInID retrieves a user by connected LinkedIn identity
func (db *DB) GetUserByLinkedInID(ctx context.Context, linkedinID string) (*User, error) {
	user, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE linkedin_id = $1`, linkedinID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by linkedin id: %w", err)
	}
	return user, nil
}

// GetUserByStripeCustomerID retrieves a user by Stripe customer ID
func (db *DB) GetUserByStripeCustomerID(ctx context.Context, customerID string) (*User, error) {
	user, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE stripe_customer_id = $1`, customerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by stripe customer: %w", err)
	}
	return user, nil
}

// CheckEmailExists reports whether an email is already registered
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdatePassword sets a user's password hash and marks the password as set
func (db *DB) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, password_set = TRUE, updated_at = NOW() WHERE id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpsertOAuthUser creates a user from an OAuth profile, or links the provider
// to the existing account with the same email.
func (db *DB) UpsertOAuthUser(ctx context.Context, provider, name, email, picture string) (*User, error) {
	existing, err := db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		_, err = db.pool.Exec(ctx,
			`UPDATE users SET oauth_provider = $1, is_verified = TRUE,
			        profile_picture = CASE WHEN profile_picture = '' THEN $2 ELSE profile_picture END,
			        updated_at = NOW()
			 WHERE id = $3`,
			provider, picture, existing.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to link oauth provider: %w", err)
		}
		return db.GetUser(ctx, existing.ID)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, oauth_provider, profile_picture, is_verified)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING id`,
		name, email, provider, picture,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}
	return db.GetUser(ctx, id)
}

// ConnectLinkedIn stores the LinkedIn identity and access token on a user
func (db *DB) ConnectLinkedIn(ctx context.Context, userID uuid.UUID, linkedinID, accessToken string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE users SET linkedin_id = $1, linkedin_access_token = $2, updated_at = NOW() WHERE id = $3`,
		nullIfEmpty(linkedinID), accessToken, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to connect linkedin: %w", err)
	}
	return nil
}

// DisconnectLinkedIn clears the LinkedIn identity and token from a user
func (db *DB) DisconnectLinkedIn(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE users SET linkedin_id = NULL, linkedin_access_token = '', updated_at = NOW() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to disconnect linkedin: %w", err)
	}
	return nil
}

// SetStripeCustomerID stores the Stripe customer reference on a user
func (db *DB) SetStripeCustomerID(ctx context.Context, userID uuid.UUID, customerID string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE users SET stripe_customer_id = $1, updated_at = NOW() WHERE id = $2`,
		customerID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set stripe customer: %w", err)
	}
	return nil
}

// UpdateSubscriptionPlan updates the denormalized plan on the user row
func (db *DB) UpdateSubscriptionPlan(ctx context.Context, userID uuid.UUID, plan string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE users SET subscription_plan = $1, updated_at = NOW() WHERE id = $2`,
		plan, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription plan: %w", err)
	}
	return nil
}
