package persist

import (
	"context"

	"github.com/roach88/purse/internal/account"
)

// DefaultKey is the slot name the collection is stored under.
const DefaultKey = "accounts-storage"

// Adapter is durable storage for the account collection.
//
// Load returns ErrNotFound when nothing has been saved yet.
// Save replaces the previous collection; readers never observe a partial write.
type Adapter interface {
	Load(ctx context.Context) ([]account.Account, error)
	Save(ctx context.Context, accounts []account.Account) error
}
