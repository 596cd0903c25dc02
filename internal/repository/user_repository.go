package repository

import (
	"context"
	"log/slog"
	"strings"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserRepository implements domain.UserRepository using MongoDB
type MongoUserRepository struct {
	*mongoStore[domain.User, *domain.User]
}

// NewMongoUserRepository creates a new user repository
func NewMongoUserRepository(db *mongo.Database, logger *slog.Logger) *MongoUserRepository {
	return &MongoUserRepository{newMongoStore[domain.User](db, CollectionUsers, "user", logger)}
}

// Create stores a user with a normalized email. A taken email yields domain.ErrDuplicate.
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = NormalizeEmail(user.Email)
	return r.mongoStore.Create(ctx, user)
}

// GetByEmail retrieves a user by email, ignoring case
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

// NormalizeEmail is the canonical stored form of an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
