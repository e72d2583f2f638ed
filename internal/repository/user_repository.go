package repository

import (
	"context"
	"errors"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/user"
	apperrors "github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, apperrors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Profile, error) {
	profiles := make(map[uuid.UUID]user.Profile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	var users []user.User
	err := r.db.WithContext(ctx).
		Select("id", "username", "avatar_url").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		profiles[u.ID] = u.PublicProfile()
	}
	return profiles, nil
}
