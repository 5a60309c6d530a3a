package seeding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/internal/usecases/importing"
	"github.com/vfg2006/sales-pipeline/internal/usecases/seeding/mocks"
	"go.uber.org/mock/gomock"
)

func TestTimeline_Months(t *testing.T) {
	months := Timeline{StartYear: 2024, EndYear: 2025}.Months()

	require.Len(t, months, 25)
	assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), months[0])
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), months[1])
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), months[24])
}

func TestService_SeedProjects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockProjectStore(ctrl)
	var saved []*domain.Project
	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.Project) error {
			saved = append(saved, p)
			return nil
		}).
		Times(4)

	seeds := []ProjectSeed{
		{Name: "ROCKDALE Drums", Status: domain.ProjectStatusActive},
		{Name: "DP Technology Wireless", Status: domain.ProjectStatusClose},
	}

	n, err := NewService(store, nil).SeedProjects(context.Background(), seeds, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.Len(t, saved, 4)
	assert.Equal(t, domain.ProjectKey{Name: "ROCKDALE Drums", Currency: "EUR"}, saved[1].Key())
	assert.Equal(t, domain.ProjectStatusClose, *saved[3].Status)
	assert.NotEmpty(t, saved[0].ID)
}

func TestService_SeedProjects_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockProjectStore(ctrl)
	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	n, err := NewService(store, nil).SeedProjects(context.Background(), DefaultProjects)
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestService_SeedTimeline(t *testing.T) {
	ctx := context.Background()
	projects := []*domain.Project{{ID: "p1"}, {ID: "p2"}}
	timeline := Timeline{StartYear: 2024, EndYear: 2024, Segments: []string{"B2B", "B2C"}}

	tests := []struct {
		name     string
		timeline Timeline
		setup    func(store *mocks.MockProjectStore, facts *mocks.MockFactWriter)
		wantErr  error
		validate func(t *testing.T, report *Report)
	}{
		{
			name:     "tabela segmentada recebe uma linha por segmento",
			timeline: timeline,
			setup: func(store *mocks.MockProjectStore, facts *mocks.MockFactWriter) {
				store.EXPECT().List(gomock.Any()).Return(projects, nil)
				facts.EXPECT().Upsert(gomock.Any(), domain.SalesSchema, gomock.Len(2*13*2)).
					DoAndReturn(func(_ context.Context, _ domain.FactSchema, recs []domain.FactRecord) (importing.UpsertStats, error) {
						for _, rec := range recs {
							assert.True(t, rec.Value("total_gs").IsZero())
							assert.NotEmpty(t, rec.Segment)
						}
						return importing.UpsertStats{UpsertResult: domain.UpsertResult{Inserted: 10}}, nil
					})
				facts.EXPECT().Upsert(gomock.Any(), domain.OrdersSchema, gomock.Len(2*13)).
					Return(importing.UpsertStats{}, nil)
			},
			validate: func(t *testing.T, report *Report) {
				assert.Equal(t, 2, report.Projects)
				assert.Equal(t, 10, report.Tables["sales"].Inserted)
				assert.Contains(t, report.Tables, "orders")
			},
		},
		{
			name:     "sem projetos",
			timeline: timeline,
			setup: func(store *mocks.MockProjectStore, facts *mocks.MockFactWriter) {
				store.EXPECT().List(gomock.Any()).Return(nil, nil)
			},
			wantErr: ErrNoProjects,
		},
		{
			name:     "intervalo inválido",
			timeline: Timeline{StartYear: 2025, EndYear: 2024, Segments: []string{"B2B"}},
			setup:    func(store *mocks.MockProjectStore, facts *mocks.MockFactWriter) {},
			wantErr:  ErrInvalidTimeline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockProjectStore(ctrl)
			facts := mocks.NewMockFactWriter(ctrl)
			tt.setup(store, facts)

			service := NewService(store, facts, domain.SalesSchema, domain.OrdersSchema)
			report, err := service.SeedTimeline(ctx, tt.timeline)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validate(t, report)
		})
	}
}
