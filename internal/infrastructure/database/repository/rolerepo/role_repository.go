package rolerepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/infrastructure/database"
	"github.com/janhq/arena-server/internal/infrastructure/database/dbschema"
)

type RoleGormRepository struct {
	db *gorm.DB
}

var (
	_ role.Repository   = (*RoleGormRepository)(nil)
	_ agent.RoleCounter = (*RoleGormRepository)(nil)
)

func NewRoleGormRepository(db *gorm.DB) *RoleGormRepository {
	return &RoleGormRepository{db: db}
}

func (repo *RoleGormRepository) Create(ctx context.Context, r *role.Role) error {
	if err := repo.db.WithContext(ctx).Create(dbschema.NewSchemaRole(r)).Error; err != nil {
		return database.Error(ctx, err, "failed to create role")
	}
	return nil
}

func (repo *RoleGormRepository) Get(ctx context.Context, id string) (*role.Role, error) {
	var entity dbschema.Role
	err := repo.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if database.IsNotFound(err) {
		return nil, access.NotFound(ctx, "role", id)
	}
	if err != nil {
		return nil, database.Error(ctx, err, "failed to find role")
	}
	return entity.EtoD(), nil
}

func (repo *RoleGormRepository) GetMany(ctx context.Context, ids []string) ([]*role.Role, error) {
	if len(ids) == 0 {
		return []*role.Role{}, nil
	}
	var rows []dbschema.Role
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, database.Error(ctx, err, "failed to load roles")
	}
	byID := make(map[string]*dbschema.Role, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	out := make([]*role.Role, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			return nil, access.NotFound(ctx, "role", id)
		}
		out = append(out, row.EtoD())
	}
	return out, nil
}

func (repo *RoleGormRepository) List(ctx context.Context, ownerID string) ([]*role.Role, error) {
	var rows []dbschema.Role
	if err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, database.Error(ctx, err, "failed to list roles")
	}
	out := make([]*role.Role, len(rows))
	for i := range rows {
		out[i] = rows[i].EtoD()
	}
	return out, nil
}

func (repo *RoleGormRepository) Update(ctx context.Context, r *role.Role) error {
	result := repo.db.WithContext(ctx).
		Model(&dbschema.Role{}).
		Where("id = ?", r.ID).
		Select("*").
		Updates(dbschema.NewSchemaRole(r))
	if result.Error != nil {
		return database.Error(ctx, result.Error, "failed to update role")
	}
	if result.RowsAffected == 0 {
		return access.NotFound(ctx, "role", r.ID)
	}
	return nil
}

func (repo *RoleGormRepository) Delete(ctx context.Context, id string) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&dbschema.Role{})
	if result.Error != nil {
		return database.Error(ctx, result.Error, "failed to delete role")
	}
	if result.RowsAffected == 0 {
		return access.NotFound(ctx, "role", id)
	}
	return nil
}

func (repo *RoleGormRepository) CountByAgent(ctx context.Context, agentID string) (int64, error) {
	var n int64
	if err := repo.db.WithContext(ctx).Model(&dbschema.Role{}).Where("agent_id = ?", agentID).Count(&n).Error; err != nil {
		return 0, database.Error(ctx, err, "failed to count roles")
	}
	return n, nil
}
