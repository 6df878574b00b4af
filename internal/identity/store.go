// Package identity holds the fixed two-identity credential store. The
// schema also defines a users table, but the authentication path never
// reads it: exactly two principals exist, both from configuration.
package identity

import (
	"github.com/mealvoice/feedbackhub/internal/config"
	domain "github.com/mealvoice/feedbackhub/internal/domain/identity"
	"github.com/mealvoice/feedbackhub/internal/security"
)

type account struct {
	identity     domain.Identity
	passwordHash string
}

// Store compares login attempts against the two configured accounts.
type Store struct {
	accounts []account
}

// NewStore bcrypt-hashes the configured passwords once, up front, so
// every Authenticate call goes through the same bcrypt comparison as a
// stored credential would.
func NewStore(cfg config.Config) (*Store, error) {
	adminHash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return nil, err
	}

	userHash, err := security.HashPassword(cfg.UserPassword)

	if err != nil {
		return nil, err
	}

	return &Store{
		accounts: []account{
			{
				identity: domain.Identity{
					ID:    "admin",
					Email: cfg.AdminEmail,
					Role:  domain.RoleAdmin,
				},
				passwordHash: adminHash,
			},
			{
				identity: domain.Identity{
					ID:    "user",
					Email: cfg.UserEmail,
					Role:  domain.RoleUser,
				},
				passwordHash: userHash,
			},
		},
	}, nil
}

// Authenticate returns the matching identity, or false on any
// mismatch. It never reports which of the two fields was wrong.
func (s *Store) Authenticate(email, password string) (domain.Identity, bool) {
	for _, acc := range s.accounts {
		if acc.identity.Email != email {
			continue
		}

		if security.CheckPassword(acc.passwordHash, password) != nil {
			continue
		}

		return acc.identity, true
	}

	return domain.Identity{}, false
}
