package contact

import (
	"context"

	domcontact "github.com/kailas-cloud/cardex/internal/domain/contact"
)

// Repository defines the storage contract for contacts.
type Repository interface {
	Create(ctx context.Context, c domcontact.Contact) error
	Update(ctx context.Context, c domcontact.Contact) error
	Get(ctx context.Context, userID, id string) (domcontact.Contact, error)
	List(ctx context.Context, userID string) ([]domcontact.Contact, error)
	Delete(ctx context.Context, userID, id string) error
}

// Locker serializes saves of one user.
type Locker interface {
	Acquire(ctx context.Context, scope string) (func(ctx context.Context) error, error)
}
