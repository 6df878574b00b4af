package sessions

import (
	"context"
	"time"
)

// Revoker tracks session JTIs that were invalidated before their
// natural expiry (logout). Verification consults it after the JWT
// checks pass.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NopRevoker is used when no redis is configured: logout clears the
// cookie but tokens remain valid until expiry.
type NopRevoker struct{}

func (NopRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	return nil
}

func (NopRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return false, nil
}
