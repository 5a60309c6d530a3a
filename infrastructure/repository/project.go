package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-pipeline/infrastructure/database/postgres"
	"github.com/vfg2006/sales-pipeline/internal/domain"
)

const projectColumns = "id, project_name, currency, status, description, created_at, updated_at"

type ProjectRepository interface {
	FindByKey(ctx context.Context, key domain.ProjectKey) (*domain.Project, error)
	Create(ctx context.Context, project *domain.Project) error
	Upsert(ctx context.Context, project *domain.Project) error
	List(ctx context.Context) ([]*domain.Project, error)
}

type projectRepository struct {
	conn postgres.Queryer
}

func NewProjectRepository(conn postgres.Queryer) ProjectRepository {
	return &projectRepository{
		conn: conn,
	}
}

// FindByKey devolve nil, nil quando o projeto não existe
func (r *projectRepository) FindByKey(ctx context.Context, key domain.ProjectKey) (*domain.Project, error) {
	query, args, err := squirrel.
		Select(projectColumns).
		From(domain.ProjectsTable).
		Where(squirrel.Eq{
			"project_name": key.Name,
			"currency":     key.Currency,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	project, err := scanProject(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.WrapError(err, "find project")
	}

	return project, nil
}

// Create insere o projeto. Se outro processo criou a mesma chave antes, o ID
// gravado prevalece e é copiado para project.ID.
func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	query, args, err := squirrel.
		Insert(domain.ProjectsTable).
		Columns("id", "project_name", "currency", "status", "description").
		Values(project.ID, project.Name, project.Currency, project.Status, project.Description).
		Suffix(`
			ON CONFLICT (project_name, currency) DO UPDATE SET
				updated_at = projects.updated_at
			RETURNING id, created_at, updated_at
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return postgres.WrapError(err, "create project")
	}

	return nil
}

// Upsert corrige status e descrição de um projeto existente pela chave natural
func (r *projectRepository) Upsert(ctx context.Context, project *domain.Project) error {
	query, args, err := squirrel.
		Insert(domain.ProjectsTable).
		Columns("id", "project_name", "currency", "status", "description").
		Values(project.ID, project.Name, project.Currency, project.Status, project.Description).
		Suffix(`
			ON CONFLICT (project_name, currency) DO UPDATE SET
				status = EXCLUDED.status,
				description = COALESCE(EXCLUDED.description, projects.description),
				updated_at = NOW()
			RETURNING id, created_at, updated_at
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return postgres.WrapError(err, "upsert project")
	}

	return nil
}

func (r *projectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	query, args, err := squirrel.
		Select(projectColumns).
		From(domain.ProjectsTable).
		OrderBy("project_name ASC", "currency ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, postgres.WrapError(err, "list projects")
	}
	defer rows.Close()

	projects := make([]*domain.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*domain.Project, error) {
	project := &domain.Project{}
	var status sql.NullString

	if err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Currency,
		&status,
		&project.Description,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if status.Valid {
		s := domain.ProjectStatus(status.String)
		project.Status = &s
	}

	return project, nil
}
