package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskmind.com/taskmind/pkg/exceptions"
	model "taskmind.com/taskmind/pkg/models"
)

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(usersCollection)}
}

func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = newID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exceptions.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	users := []model.User{}
	if len(ids) == 0 {
		return users, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *MongoUserRepository) List(ctx context.Context) ([]model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoUserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.User, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}

	cursor, err := r.collection.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrEmailTaken
		}
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	if res.MatchedCount == 0 {
		return exceptions.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return exceptions.ErrUserNotFound
	}
	return nil
}
