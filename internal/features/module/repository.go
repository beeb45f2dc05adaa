package module

import (
	"context"

	"go-chms/internal/common/models"
	"go-chms/internal/config"
	"go-chms/internal/features/rbac"
	"go-chms/internal/graphql"
)

const (
	mutationUpdateModule = `mutation UpdateModule($id: ID!, $enabled: Boolean!) {
  updateModule(id: $id, enabled: $enabled) {
    id name description path icon category enabled version dependencies features permissions metadata
  }
}`
	mutationUpdateManyModules = `mutation UpdateManyModules($input: [UpdateModuleInput!]!) {
  updateManyModules(input: $input)
}`
)

// ModuleUpdate is the wire shape of one entry in a bulk update.
type ModuleUpdate struct {
	ID      models.ModuleID `json:"id"`
	Enabled bool            `json:"enabled"`
}

type ModuleRepository interface {
	ListModules(ctx context.Context) ([]models.Module, error)
	UpdateModule(ctx context.Context, id models.ModuleID, enabled bool) (*models.Module, error)
	UpdateModules(ctx context.Context, updates []ModuleUpdate) error
}

type ModuleRepositoryImpl struct {
	client   graphql.Doer
	pageSize int
}

func NewModuleRepository(client *graphql.Client, cfg *config.Config) ModuleRepository {
	return &ModuleRepositoryImpl{client: client, pageSize: cfg.ModulePageSize}
}

func (r *ModuleRepositoryImpl) ListModules(ctx context.Context) ([]models.Module, error) {
	return rbac.ListModulePages(ctx, r.client, r.pageSize)
}

func (r *ModuleRepositoryImpl) UpdateModule(ctx context.Context, id models.ModuleID, enabled bool) (*models.Module, error) {
	var out struct {
		Module *models.Module `json:"updateModule"`
	}
	vars := map[string]any{"id": id, "enabled": enabled}
	if err := r.client.Do(ctx, mutationUpdateModule, vars, &out); err != nil {
		return nil, err
	}
	return out.Module, nil
}

func (r *ModuleRepositoryImpl) UpdateModules(ctx context.Context, updates []ModuleUpdate) error {
	return r.client.Do(ctx, mutationUpdateManyModules, map[string]any{"input": updates}, nil)
}
