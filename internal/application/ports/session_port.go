package ports

import (
	"context"
	"time"
)

// SessionStore guarda los identificadores (jti) de tokens revocados por logout.
// La revocación solo necesita vivir hasta la expiración natural del token.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
