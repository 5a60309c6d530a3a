package domain

import (
	"time"
)

// ImportStage é o estado de uma execução de importação de um arquivo
type ImportStage string

const (
	StageIdle        ImportStage = "idle"
	StageReading     ImportStage = "reading"
	StageReshaping   ImportStage = "reshaping"
	StageResolving   ImportStage = "resolving"
	StageAggregating ImportStage = "aggregating"
	StageProjecting  ImportStage = "projecting"
	StageUpserting   ImportStage = "upserting"
	StageCompleted   ImportStage = "completed"
	StageFailed      ImportStage = "failed"
)

// Terminal indica se a execução terminou
func (s ImportStage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

// SkipReason classifica linhas descartadas sem falhar a execução
type SkipReason string

const (
	SkipBlankIdentity   SkipReason = "blank_identity"
	SkipProjectNotFound SkipReason = "project_not_found"
	SkipMissingField    SkipReason = "missing_field"
	SkipInvalidValue    SkipReason = "invalid_value"
	SkipUnknownMetric   SkipReason = "unknown_metric"
	SkipMissingKey      SkipReason = "missing_key"
	SkipZeroValue       SkipReason = "zero_value"
)

// RunCounters acumula contadores ao longo dos estágios
type RunCounters struct {
	RowsRead      int                `json:"rows_read"`
	CellsReshaped int                `json:"cells_reshaped"`
	Resolved      int                `json:"resolved"`
	Aggregated    int                `json:"aggregated"`
	Projected     int                `json:"projected"`
	Inserted      int                `json:"inserted"`
	Updated       int                `json:"updated"`
	Skipped       map[SkipReason]int `json:"skipped"`
}

// Skip incrementa o contador do motivo informado
func (c *RunCounters) Skip(reason SkipReason, n int) {
	if n == 0 {
		return
	}
	if c.Skipped == nil {
		c.Skipped = make(map[SkipReason]int)
	}
	c.Skipped[reason] += n
}

// RowsSkipped soma todos os descartes
func (c *RunCounters) RowsSkipped() int {
	total := 0
	for _, n := range c.Skipped {
		total += n
	}
	return total
}

// StageTransition registra a entrada em um estágio
type StageTransition struct {
	Stage ImportStage `json:"stage"`
	At    time.Time   `json:"at"`
}

// RunReport é o resultado visível de uma execução, com sucesso ou falha
type RunReport struct {
	RunID       string            `json:"run_id"`
	File        string            `json:"file"`
	FactTable   string            `json:"fact_table"`
	Stage       ImportStage       `json:"stage"`
	FailedStage ImportStage       `json:"failed_stage,omitempty"`
	DateColumns []string          `json:"date_columns"`
	Counters    RunCounters       `json:"counters"`
	Transitions []StageTransition `json:"transitions"`
	StartedAt   time.Time         `json:"started_at"`
	FinishedAt  time.Time         `json:"finished_at"`
	Error       string            `json:"error,omitempty"`
}

func (r *RunReport) Succeeded() bool {
	return r.Stage == StageCompleted
}
