package roomrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/infrastructure/database"
	"github.com/janhq/arena-server/internal/infrastructure/database/dbschema"
	"github.com/janhq/arena-server/internal/utils/functional"
)

type RoomGormRepository struct {
	db *gorm.DB
}

var (
	_ room.Repository  = (*RoomGormRepository)(nil)
	_ role.RoomCounter = (*RoomGormRepository)(nil)
)

func NewRoomGormRepository(db *gorm.DB) *RoomGormRepository {
	return &RoomGormRepository{db: db}
}

func (repo *RoomGormRepository) Create(ctx context.Context, r *room.Room) error {
	entity, err := dbschema.NewSchemaRoom(r)
	if err != nil {
		return database.Error(ctx, err, "failed to encode room")
	}
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		return database.Error(ctx, err, "failed to create room")
	}
	return nil
}

func (repo *RoomGormRepository) Get(ctx context.Context, id string) (*room.Room, error) {
	var entity dbschema.Room
	err := repo.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if database.IsNotFound(err) {
		return nil, access.NotFound(ctx, "room", id)
	}
	if err != nil {
		return nil, database.Error(ctx, err, "failed to find room")
	}
	r, err := entity.EtoD()
	if err != nil {
		return nil, database.Error(ctx, err, "failed to decode room")
	}
	return r, nil
}

func (repo *RoomGormRepository) List(ctx context.Context, ownerID string) ([]*room.Room, error) {
	return repo.find(ctx, repo.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

func (repo *RoomGormRepository) ListByStatus(ctx context.Context, status room.Status) ([]*room.Room, error) {
	return repo.find(ctx, repo.db.WithContext(ctx).Where("status = ?", string(status)))
}

func (repo *RoomGormRepository) find(ctx context.Context, query *gorm.DB) ([]*room.Room, error) {
	var rows []dbschema.Room
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, database.Error(ctx, err, "failed to list rooms")
	}
	out := make([]*room.Room, 0, len(rows))
	for i := range rows {
		r, err := rows[i].EtoD()
		if err != nil {
			return nil, database.Error(ctx, err, "failed to decode room")
		}
		out = append(out, r)
	}
	return out, nil
}

func (repo *RoomGormRepository) Update(ctx context.Context, r *room.Room) error {
	entity, err := dbschema.NewSchemaRoom(r)
	if err != nil {
		return database.Error(ctx, err, "failed to encode room")
	}
	result := repo.db.WithContext(ctx).
		Model(&dbschema.Room{}).
		Where("id = ?", r.ID).
		Select("*").
		Updates(entity)
	if result.Error != nil {
		return database.Error(ctx, result.Error, "failed to update room")
	}
	if result.RowsAffected == 0 {
		return access.NotFound(ctx, "room", r.ID)
	}
	return nil
}

func (repo *RoomGormRepository) Delete(ctx context.Context, id string) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&dbschema.Room{})
	if result.Error != nil {
		return database.Error(ctx, result.Error, "failed to delete room")
	}
	if result.RowsAffected == 0 {
		return access.NotFound(ctx, "room", id)
	}
	return nil
}

// CountRoomsWithRole narrows candidates with a text match on the JSON column
// and confirms membership after decoding, which works on both drivers.
func (repo *RoomGormRepository) CountRoomsWithRole(ctx context.Context, roleID string) (int64, error) {
	var rows []dbschema.Room
	if err := repo.db.WithContext(ctx).
		Select("id", "role_ids").
		Where("CAST(role_ids AS TEXT) LIKE ?", `%"`+roleID+`"%`).
		Find(&rows).Error; err != nil {
		return 0, database.Error(ctx, err, "failed to count rooms")
	}
	var n int64
	for i := range rows {
		ids, err := rows[i].RoleIDList()
		if err != nil {
			return 0, database.Error(ctx, err, "failed to decode room")
		}
		if functional.Contains(ids, roleID) {
			n++
		}
	}
	return n, nil
}
