package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// PropertyListLimit caps property listings
	PropertyListLimit = 50
	// DefaultListLimit caps every other listing
	DefaultListLimit = 100
)

// Base is the identity and timestamp header shared by all persisted records
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Meta exposes the header to generic store code
func (b *Base) Meta() *Base {
	return b
}

// Stamp assigns a fresh id and creation time to a record about to be inserted
func (b *Base) Stamp(now time.Time) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Record is satisfied by pointers to any entity embedding Base
type Record interface {
	Meta() *Base
}

// Store is the lifecycle contract shared by every entity collection.
// Update replaces the stored record wholesale and returns ErrNotFound when it is missing.
type Store[T any, F any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	List(ctx context.Context, filter F) ([]*T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ParseID converts a path id into an ObjectID. Malformed ids never match a record.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return id, nil
}

// ClampLimit bounds a requested limit to the collection cap
func ClampLimit(requested, max int) int {
	if requested <= 0 || requested > max {
		return max
	}
	return requested
}
