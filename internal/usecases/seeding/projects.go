package seeding

import "github.com/vfg2006/sales-pipeline/internal/domain"

// ProjectSeed é um projeto conhecido e o status que ele deve ter
type ProjectSeed struct {
	Name   string
	Status domain.ProjectStatus
}

// DefaultProjects é a carteira inicial de projetos
var DefaultProjects = []ProjectSeed{
	{Name: "DP Technology Wireless", Status: domain.ProjectStatusClose},
	{Name: "EMOTIVE GuitarsAcoustic", Status: domain.ProjectStatusNew},
	{Name: "EMOTIVE KeysPiano", Status: domain.ProjectStatusNew},
	{Name: "ROCKDALE Benches", Status: domain.ProjectStatusActive},
	{Name: "ROCKDALE Cables", Status: domain.ProjectStatusActive},
	{Name: "ROCKDALE Drums", Status: domain.ProjectStatusActive},
	{Name: "ROCKDALE DrumSticks", Status: domain.ProjectStatusActive},
	{Name: "ROCKDALE GuitarBelts&Bags", Status: domain.ProjectStatusActive},
	{Name: "ROCKDALE GuitarsAcoustic", Status: domain.ProjectStatusActive},
	{Name: "ROCKDALE GuitarsElectric", Status: domain.ProjectStatusActive},
	{Name: "ROCKDALE KeysPiano", Status: domain.ProjectStatusActive},
	{Name: "ROCKDALE KeysSynth", Status: domain.ProjectStatusActive},
	{Name: "ROCKDALE PRO Wireless", Status: domain.ProjectStatusActive},
	{Name: "ROCKDALE Stands", Status: domain.ProjectStatusActive},
	{Name: "ROCKDALE Strings", Status: domain.ProjectStatusActive},
	{Name: "UPTONE Benches", Status: domain.ProjectStatusActive},
	{Name: "UPTONE DrumSticks", Status: domain.ProjectStatusActive},
	{Name: "UPTONE GuitarBelts", Status: domain.ProjectStatusActive},
	{Name: "UPTONE Liquids", Status: domain.ProjectStatusActive},
	{Name: "UPTONE Stands", Status: domain.ProjectStatusActive},
	{Name: "UPTONE Strings", Status: domain.ProjectStatusActive},
	{Name: "YARGO Drums", Status: domain.ProjectStatusActive},
	{Name: "YARGO KeysSynth", Status: domain.ProjectStatusActive},
}
