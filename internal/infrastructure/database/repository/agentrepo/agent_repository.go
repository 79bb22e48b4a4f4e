package agentrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/infrastructure/database"
	"github.com/janhq/arena-server/internal/infrastructure/database/dbschema"
)

type AgentGormRepository struct {
	db *gorm.DB
}

var _ agent.Repository = (*AgentGormRepository)(nil)

func NewAgentGormRepository(db *gorm.DB) *AgentGormRepository {
	return &AgentGormRepository{db: db}
}

func (repo *AgentGormRepository) Create(ctx context.Context, a *agent.Agent) error {
	if err := repo.db.WithContext(ctx).Create(dbschema.NewSchemaAgent(a)).Error; err != nil {
		return database.Error(ctx, err, "failed to create agent")
	}
	return nil
}

func (repo *AgentGormRepository) Get(ctx context.Context, id string) (*agent.Agent, error) {
	var entity dbschema.Agent
	err := repo.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if database.IsNotFound(err) {
		return nil, access.NotFound(ctx, "agent", id)
	}
	if err != nil {
		return nil, database.Error(ctx, err, "failed to find agent")
	}
	return entity.EtoD(), nil
}

func (repo *AgentGormRepository) List(ctx context.Context, ownerID string) ([]*agent.Agent, error) {
	var rows []dbschema.Agent
	if err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, database.Error(ctx, err, "failed to list agents")
	}
	out := make([]*agent.Agent, len(rows))
	for i := range rows {
		out[i] = rows[i].EtoD()
	}
	return out, nil
}

func (repo *AgentGormRepository) Update(ctx context.Context, a *agent.Agent) error {
	result := repo.db.WithContext(ctx).
		Model(&dbschema.Agent{}).
		Where("id = ?", a.ID).
		Select("*").
		Updates(dbschema.NewSchemaAgent(a))
	if result.Error != nil {
		return database.Error(ctx, result.Error, "failed to update agent")
	}
	if result.RowsAffected == 0 {
		return access.NotFound(ctx, "agent", a.ID)
	}
	return nil
}

func (repo *AgentGormRepository) Delete(ctx context.Context, id string) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&dbschema.Agent{})
	if result.Error != nil {
		return database.Error(ctx, result.Error, "failed to delete agent")
	}
	if result.RowsAffected == 0 {
		return access.NotFound(ctx, "agent", id)
	}
	return nil
}
