package port

import (
	"context"

	"github.com/mihirp/food-order/internal/core/domain"
)

type UserRepository interface {
	// GetUser returns the user joined with its account email.
	GetUser(ctx context.Context, userID string) (domain.User, error)

	// UpdateAddress replaces the user's structured and formatted address.
	UpdateAddress(ctx context.Context, userID, formattedAddress string, addr domain.Address) (domain.User, error)

	// ResolveParticipant maps an account id to the user or seller record it
	// belongs to, tagging the result with its kind.
	ResolveParticipant(ctx context.Context, accountID string) (domain.Participant, error)
}
