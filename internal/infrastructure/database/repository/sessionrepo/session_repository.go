package sessionrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/infrastructure/database"
	"github.com/janhq/arena-server/internal/infrastructure/database/dbschema"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

type SessionGormRepository struct {
	db *gorm.DB
}

var (
	_ session.Repository = (*SessionGormRepository)(nil)
	_ room.Purger        = (*SessionGormRepository)(nil)
)

func NewSessionGormRepository(db *gorm.DB) *SessionGormRepository {
	return &SessionGormRepository{db: db}
}

// Create relies on the partial unique index over open sessions.
func (repo *SessionGormRepository) Create(ctx context.Context, s *session.Session) error {
	err := repo.db.WithContext(ctx).Create(dbschema.NewSchemaSession(s)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			"room already has an open session", err, map[string]any{"room_id": s.RoomID})
	}
	if err != nil {
		return database.Error(ctx, err, "failed to create session")
	}
	return nil
}

func (repo *SessionGormRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	var entity dbschema.Session
	err := repo.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if database.IsNotFound(err) {
		return nil, access.NotFound(ctx, "session", id)
	}
	if err != nil {
		return nil, database.Error(ctx, err, "failed to find session")
	}
	return entity.EtoD(), nil
}

func (repo *SessionGormRepository) Update(ctx context.Context, s *session.Session) error {
	result := repo.db.WithContext(ctx).
		Model(&dbschema.Session{}).
		Where("id = ?", s.ID).
		Select("*").
		Updates(dbschema.NewSchemaSession(s))
	if result.Error != nil {
		return database.Error(ctx, result.Error, "failed to update session")
	}
	if result.RowsAffected == 0 {
		return access.NotFound(ctx, "session", s.ID)
	}
	return nil
}

// ListByRoom returns the sessions of a room, newest first.
func (repo *SessionGormRepository) ListByRoom(ctx context.Context, roomID string) ([]*session.Session, error) {
	var rows []dbschema.Session
	if err := repo.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, database.Error(ctx, err, "failed to list sessions")
	}
	out := make([]*session.Session, len(rows))
	for i := range rows {
		out[i] = rows[i].EtoD()
	}
	return out, nil
}

func (repo *SessionGormRepository) DeleteByRoom(ctx context.Context, roomID string) error {
	if err := repo.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&dbschema.Session{}).Error; err != nil {
		return database.Error(ctx, err, "failed to delete sessions")
	}
	return nil
}
