package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskmind.com/taskmind/pkg/exceptions"
	model "taskmind.com/taskmind/pkg/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = newID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return exceptions.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// FindByIDs returns the users that exist among ids, in no particular order.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	users := []model.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := r.db.WithContext(ctx).Order("created_at asc").Order("id asc").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(user).
		Select("*").
		Omit("id", "created_at").
		Updates(user)

	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return exceptions.ErrEmailTaken
		}
		return fmt.Errorf("update user %s: %w", user.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return exceptions.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return exceptions.ErrUserNotFound
	}
	return nil
}
