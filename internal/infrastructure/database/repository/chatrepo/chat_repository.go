package chatrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/chat"
	"github.com/janhq/arena-server/internal/infrastructure/database"
	"github.com/janhq/arena-server/internal/infrastructure/database/dbschema"
)

type ChatGormRepository struct {
	db *gorm.DB
}

var _ chat.Repository = (*ChatGormRepository)(nil)

func NewChatGormRepository(db *gorm.DB) *ChatGormRepository {
	return &ChatGormRepository{db: db}
}

func (repo *ChatGormRepository) Create(ctx context.Context, s *chat.Session) error {
	if err := repo.db.WithContext(ctx).Create(dbschema.NewSchemaChatSession(s)).Error; err != nil {
		return database.Error(ctx, err, "failed to create chat session")
	}
	return nil
}

func (repo *ChatGormRepository) Get(ctx context.Context, id string) (*chat.Session, error) {
	var entity dbschema.ChatSession
	err := repo.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if database.IsNotFound(err) {
		return nil, access.NotFound(ctx, "chat session", id)
	}
	if err != nil {
		return nil, database.Error(ctx, err, "failed to find chat session")
	}
	return entity.EtoD(), nil
}

func (repo *ChatGormRepository) List(ctx context.Context, ownerID string) ([]*chat.Session, error) {
	var rows []dbschema.ChatSession
	if err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, database.Error(ctx, err, "failed to list chat sessions")
	}
	out := make([]*chat.Session, len(rows))
	for i := range rows {
		out[i] = rows[i].EtoD()
	}
	return out, nil
}

func (repo *ChatGormRepository) Update(ctx context.Context, s *chat.Session) error {
	result := repo.db.WithContext(ctx).
		Model(&dbschema.ChatSession{}).
		Where("id = ?", s.ID).
		Select("*").
		Updates(dbschema.NewSchemaChatSession(s))
	if result.Error != nil {
		return database.Error(ctx, result.Error, "failed to update chat session")
	}
	if result.RowsAffected == 0 {
		return access.NotFound(ctx, "chat session", s.ID)
	}
	return nil
}

func (repo *ChatGormRepository) Delete(ctx context.Context, id string) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&dbschema.ChatSession{})
	if result.Error != nil {
		return database.Error(ctx, result.Error, "failed to delete chat session")
	}
	if result.RowsAffected == 0 {
		return access.NotFound(ctx, "chat session", id)
	}
	return nil
}
