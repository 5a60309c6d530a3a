package importing

import (
	"context"

	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/internal/tabular"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

// ProjectRepository é o que o resolvedor precisa do armazenamento de projetos
type ProjectRepository interface {
	// FindByKey retorna nil, nil quando o projeto não existe
	FindByKey(ctx context.Context, key domain.ProjectKey) (*domain.Project, error)
	// Create grava o projeto e preenche project.ID com o ID armazenado,
	// que pode ser de uma linha criada antes por outro processo
	Create(ctx context.Context, project *domain.Project) error
}

// FactRepository grava um lote de fatos atomicamente
type FactRepository interface {
	UpsertBatch(ctx context.Context, schema domain.FactSchema, records []domain.FactRecord, policy domain.UpdatePolicy) (domain.UpsertResult, error)
}

// TableChecker verifica a presença das tabelas antes de importar
type TableChecker interface {
	MissingTables(ctx context.Context, tables ...string) ([]string, error)
}

// SheetReader lê uma aba de planilha: a primeira linha é o cabeçalho
type SheetReader interface {
	Read(ctx context.Context, path string, sheet string) (*tabular.Table, error)
}
