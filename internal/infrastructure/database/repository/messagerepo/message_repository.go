package messagerepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/infrastructure/database"
	"github.com/janhq/arena-server/internal/infrastructure/database/dbschema"
)

// appendAttempts bounds retries when two writers race for the same id.
const appendAttempts = 5

type MessageGormRepository struct {
	db *gorm.DB
}

var (
	_ message.Repository = (*MessageGormRepository)(nil)
	_ room.Purger        = (*MessageGormRepository)(nil)
)

func NewMessageGormRepository(db *gorm.DB) *MessageGormRepository {
	return &MessageGormRepository{db: db}
}

// Append allocates MAX(id)+1 inside a transaction. The (session_id, id)
// primary key rejects a concurrent duplicate, in which case the insert is retried.
func (repo *MessageGormRepository) Append(ctx context.Context, m *message.Message) error {
	var err error
	for attempt := 0; attempt < appendAttempts; attempt++ {
		err = repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var last int64
			if err := tx.Model(&dbschema.Message{}).
				Where("session_id = ?", m.SessionID).
				Select("COALESCE(MAX(id), 0)").
				Scan(&last).Error; err != nil {
				return err
			}
			entity := dbschema.NewSchemaMessage(m)
			entity.ID = last + 1
			if err := tx.Create(entity).Error; err != nil {
				return err
			}
			m.ID = entity.ID
			return nil
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		return database.Error(ctx, err, "failed to append message")
	}
	return nil
}

func (repo *MessageGormRepository) List(ctx context.Context, sessionID string, afterID int64, limit int) ([]*message.Message, error) {
	query := repo.db.WithContext(ctx).
		Where("session_id = ? AND id > ?", sessionID, afterID).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []dbschema.Message
	if err := query.Find(&rows).Error; err != nil {
		return nil, database.Error(ctx, err, "failed to list messages")
	}
	return toDomain(rows), nil
}

func (repo *MessageGormRepository) Recent(ctx context.Context, sessionID string, n int) ([]*message.Message, error) {
	query := repo.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id DESC")
	if n > 0 {
		query = query.Limit(n)
	}
	var rows []dbschema.Message
	if err := query.Find(&rows).Error; err != nil {
		return nil, database.Error(ctx, err, "failed to load recent messages")
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return toDomain(rows), nil
}

func (repo *MessageGormRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	if err := repo.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&dbschema.Message{}).Error; err != nil {
		return database.Error(ctx, err, "failed to delete messages")
	}
	return nil
}

func (repo *MessageGormRepository) DeleteByRoom(ctx context.Context, roomID string) error {
	if err := repo.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&dbschema.Message{}).Error; err != nil {
		return database.Error(ctx, err, "failed to delete room messages")
	}
	return nil
}

func toDomain(rows []dbschema.Message) []*message.Message {
	out := make([]*message.Message, len(rows))
	for i := range rows {
		out[i] = rows[i].EtoD()
	}
	return out
}
