package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/user"
	"github.com/janhq/arena-server/internal/infrastructure/database"
	"github.com/janhq/arena-server/internal/infrastructure/database/dbschema"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

type UserGormRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*UserGormRepository)(nil)

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (repo *UserGormRepository) Create(ctx context.Context, u *user.User) error {
	err := repo.db.WithContext(ctx).Create(dbschema.NewSchemaUser(u)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			"username is already taken", err, map[string]any{"username": u.Username})
	}
	if err != nil {
		return database.Error(ctx, err, "failed to create user")
	}
	return nil
}

func (repo *UserGormRepository) Get(ctx context.Context, id string) (*user.User, error) {
	return repo.first(ctx, id, "id = ?", id)
}

func (repo *UserGormRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return repo.first(ctx, username, "username_key = ?", dbschema.UsernameKey(username))
}

func (repo *UserGormRepository) first(ctx context.Context, label, where string, arg any) (*user.User, error) {
	var entity dbschema.User
	err := repo.db.WithContext(ctx).Where(where, arg).First(&entity).Error
	if database.IsNotFound(err) {
		return nil, access.NotFound(ctx, "user", label)
	}
	if err != nil {
		return nil, database.Error(ctx, err, "failed to find user")
	}
	return entity.EtoD(), nil
}
