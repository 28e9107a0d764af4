package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"brygghaus.dev/BeerLedger/pkg/model"
)

var ErrUserNotFound = errors.New("user not found")

func (r *Repository) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User

	result := r.DB.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &user, nil
}

func (r *Repository) GetUserByUUID(ctx context.Context, userUUID uuid.UUID) (*model.User, error) {
	var user model.User

	result := r.DB.WithContext(ctx).Where("uuid = ?", userUUID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &user, nil
}

func (r *Repository) GetUserByName(ctx context.Context, username string) (*model.User, error) {
	var user *model.User

	result := r.DB.WithContext(ctx).Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return user, nil
}

func (r *Repository) AddUser(ctx context.Context, username string, passwordHash string, role string) (*model.User, error) {
	user := model.User{
		UUID:     uuid.New(),
		Username: username,
		Password: passwordHash,
		Role:     role,
	}

	if result := r.DB.WithContext(ctx).Create(&user); result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

func (r *Repository) ListUsers(ctx context.Context, page int, limit int) (*Page[model.User], error) {
	var (
		users []model.User
		total int64
	)

	if result := r.DB.WithContext(ctx).Model(&model.User{}).Count(&total); result.Error != nil {
		return nil, result.Error
	}

	result := r.DB.WithContext(ctx).
		Omit("password").
		Order("username asc").
		Limit(limit).
		Offset(offsetFor(page, limit)).
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return NewPage(users, total, page, limit), nil
}

func (r *Repository) UpdateUserRole(ctx context.Context, userID uint, role string) (*model.User, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := r.DB.WithContext(ctx).Model(user).Update("role", role)
	if result.Error != nil {
		return nil, result.Error
	}

	return user, nil
}
