package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProjectsTable é a tabela de dimensão referenciada por todas as tabelas de fatos
const ProjectsTable = "projects"

// ProjectStatus representa o ciclo de vida de um projeto
type ProjectStatus string

const (
	ProjectStatusNew    ProjectStatus = "new"
	ProjectStatusActive ProjectStatus = "active"
	ProjectStatusClose  ProjectStatus = "close"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusNew, ProjectStatusActive, ProjectStatusClose:
		return true
	}
	return false
}

// ParseProjectStatus aceita o status em qualquer caixa; string vazia é inválida
func ParseProjectStatus(raw string) (ProjectStatus, error) {
	status := ProjectStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("invalid project status %q", raw)
	}
	return status, nil
}

// ProjectKey é a chave natural de um projeto: (nome, moeda)
type ProjectKey struct {
	Name     string `json:"project_name"`
	Currency string `json:"currency"`
}

func (k ProjectKey) String() string {
	return k.Name + "/" + k.Currency
}

// Project é um canal de vendas / segmento de marca numa moeda
type Project struct {
	ID          string         `json:"id"`
	Name        string         `json:"project_name"`
	Currency    string         `json:"currency"`
	Status      *ProjectStatus `json:"status"`
	Description *string        `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (p *Project) Key() ProjectKey {
	return ProjectKey{Name: p.Name, Currency: p.Currency}
}
