package userstore

import (
	"context"
	"time"

	"github.com/ktyouta/frontauth"
)

// Provider adapts a [Store] to the engine's UserProvider contract.
//
// Provider instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Provider struct {
	store *Store
}

// NewProvider wraps a [Store] for use with the engine builder.
func NewProvider(store *Store) *Provider {
	return &Provider{store: store}
}

// GetLoginByName returns the credential row for a username.
func (p *Provider) GetLoginByName(ctx context.Context, name string) (frontauth.LoginRecord, error) {
	user, err := p.store.GetByName(ctx, name)
	if err != nil {
		return frontauth.LoginRecord{}, err
	}

	return frontauth.LoginRecord{
		UserID:       user.UserID,
		Name:         user.Name,
		Salt:         user.Salt,
		PasswordHash: user.PasswordHash,
	}, nil
}

// GetUserByID returns the profile row for an account ID.
func (p *Provider) GetUserByID(ctx context.Context, userID int64) (frontauth.UserRecord, error) {
	user, err := p.store.GetByID(ctx, userID)
	if err != nil {
		return frontauth.UserRecord{}, err
	}

	return frontauth.UserRecord{
		UserID:      user.UserID,
		Name:        user.Name,
		Birthday:    user.Birthday,
		LastLoginAt: user.LastLoginAt,
	}, nil
}

// UpdateLastLogin stamps the account's last successful login time.
func (p *Provider) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return p.store.UpdateLastLogin(ctx, userID, at)
}
