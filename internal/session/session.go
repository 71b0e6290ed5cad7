package session

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Entry is one cart line: quantity plus the unit price snapshotted when the
// product was first added. Entries keep insertion order and are unique by
// product ID.
type Entry struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Cart struct {
	Entries []Entry `json:"entries"`
}

func (c *Cart) Find(productID uint) *Entry {
	for i := range c.Entries {
		if c.Entries[i].ProductID == productID {
			return &c.Entries[i]
		}
	}
	return nil
}

func (c *Cart) Remove(productID uint) bool {
	for i := range c.Entries {
		if c.Entries[i].ProductID == productID {
			c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Store persists carts keyed by visitor session ID. Every cart mutation
// writes through immediately; there is no cache in front of the store.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Set(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrNoSession = errors.New("no cart for session")
