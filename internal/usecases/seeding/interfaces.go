package seeding

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

import (
	"context"

	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/internal/usecases/importing"
)

type ProjectStore interface {
	Upsert(ctx context.Context, project *domain.Project) error
	List(ctx context.Context) ([]*domain.Project, error)
}

type FactWriter interface {
	Upsert(ctx context.Context, schema domain.FactSchema, records []domain.FactRecord) (importing.UpsertStats, error)
}
