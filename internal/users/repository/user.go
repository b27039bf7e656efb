package repository

import (
	"context"
	"errors"
	"time"

	"trailbook/pkg/crud"
	"trailbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "users"

// ErrNotFound signals a lookup miss to the service layer, which decides the
// client-facing classification (login failures and reset flows differ).
var ErrNotFound = errors.New("user not found")

type UserRepository interface {
	Store() *crud.Store[model.User]
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByResetToken(ctx context.Context, hashedToken string) (*model.User, error)
	SetPassword(ctx context.Context, id string, hash string, changedAt time.Time) error
	SetResetToken(ctx context.Context, id string, hashedToken string, expires time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, id string, fields bson.M) error
	Deactivate(ctx context.Context, id string) error
}

type userRepository struct {
	store *crud.Store[model.User]
}

// NewUserRepository builds the user store. The base filter hides deactivated
// accounts from every read and write.
func NewUserRepository(db *mongo.Database, readTimeout, writeTimeout time.Duration) UserRepository {
	store := crud.NewStore[model.User](db.Collection(CollectionName), "user", crud.StoreConfig{
		BaseFilter:   bson.M{"active": bson.M{"$ne": false}},
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})
	return &userRepository{store: store}
}

func (r *userRepository) Store() *crud.Store[model.User] {
	return r.store
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.store.FindByID(ctx, id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) FindByResetToken(ctx context.Context, hashedToken string) (*model.User, error) {
	return r.findOne(ctx, bson.M{
		"passwordResetToken":   hashedToken,
		"passwordResetExpires": bson.M{"$gt": time.Now()},
	})
}

func (r *userRepository) findOne(ctx context.Context, criteria bson.M) (*model.User, error) {
	users, err := r.store.Find(ctx, criteria, options.Find().SetLimit(1))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return &users[0], nil
}

func (r *userRepository) SetPassword(ctx context.Context, id string, hash string, changedAt time.Time) error {
	return r.store.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password":          hash,
			"passwordChangedAt": changedAt,
		},
		"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
		},
	})
}

func (r *userRepository) SetResetToken(ctx context.Context, id string, hashedToken string, expires time.Time) error {
	return r.store.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"passwordResetToken":   hashedToken,
			"passwordResetExpires": expires,
		},
	})
}

func (r *userRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.store.UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
		},
	})
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, fields bson.M) error {
	return r.store.UpdateByID(ctx, id, bson.M{"$set": fields})
}

// Deactivate flips the active flag instead of deleting; the base filter hides
// the account from subsequent reads.
func (r *userRepository) Deactivate(ctx context.Context, id string) error {
	return r.store.UpdateByID(ctx, id, bson.M{"$set": bson.M{"active": false}})
}
