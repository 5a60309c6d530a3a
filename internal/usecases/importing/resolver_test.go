package importing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-pipeline/internal/domain"
	"github.com/vfg2006/sales-pipeline/internal/usecases/importing/mocks"
	"go.uber.org/mock/gomock"
)

func rawFact(project, currency string, sourceRow int, m time.Month, value int64) domain.RawFactRow {
	return domain.RawFactRow{
		ProjectName: project,
		Currency:    currency,
		Segment:     "B2B",
		Metric:      "total_gs",
		Month:       month(2024, m),
		Value:       decimal.NewFromInt(value),
		SourceRow:   sourceRow,
	}
}

func TestResolver_ResolveAll(t *testing.T) {
	ctx := context.Background()
	acme := domain.ProjectKey{Name: "Acme", Currency: "USD"}
	ghost := domain.ProjectKey{Name: "Ghost", Currency: "USD"}

	tests := []struct {
		name     string
		policy   ResolutionPolicy
		rows     []domain.RawFactRow
		setup    func(repo *mocks.MockProjectRepository)
		wantErr  bool
		validate func(t *testing.T, facts []domain.ResolvedFact, stats ResolveStats)
	}{
		{
			name:   "estrito: projeto inexistente descarta a linha uma única vez",
			policy: ResolveStrict,
			rows: []domain.RawFactRow{
				rawFact("Acme", "USD", 0, time.January, 10),
				rawFact("Acme", "USD", 0, time.February, 20),
				rawFact("Ghost", "USD", 1, time.January, 5),
				rawFact("Ghost", "USD", 1, time.February, 6),
			},
			setup: func(repo *mocks.MockProjectRepository) {
				repo.EXPECT().FindByKey(gomock.Any(), acme).Return(&domain.Project{ID: "p-acme", Name: "Acme", Currency: "USD"}, nil).Times(1)
				repo.EXPECT().FindByKey(gomock.Any(), ghost).Return(nil, nil).Times(1)
			},
			validate: func(t *testing.T, facts []domain.ResolvedFact, stats ResolveStats) {
				require.Len(t, facts, 2)
				for _, f := range facts {
					assert.Equal(t, "p-acme", f.ProjectID)
				}
				assert.Equal(t, 1, stats.Skipped[domain.SkipProjectNotFound])
				assert.Equal(t, 0, stats.Created)
			},
		},
		{
			name:   "criando: projeto inexistente é criado com status padrão",
			policy: ResolveCreating,
			rows: []domain.RawFactRow{
				rawFact("Ghost", "USD", 0, time.January, 5),
				rawFact("Ghost", "USD", 1, time.January, 7),
			},
			setup: func(repo *mocks.MockProjectRepository) {
				repo.EXPECT().FindByKey(gomock.Any(), ghost).Return(nil, nil).Times(1)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *domain.Project) error {
					assert.Equal(t, "Ghost", p.Name)
					assert.Equal(t, "USD", p.Currency)
					require.NotNil(t, p.Status)
					assert.Equal(t, domain.ProjectStatusNew, *p.Status)
					p.ID = "p-ghost"
					return nil
				}).Times(1)
			},
			validate: func(t *testing.T, facts []domain.ResolvedFact, stats ResolveStats) {
				require.Len(t, facts, 2)
				assert.Equal(t, "p-ghost", facts[0].ProjectID)
				assert.Equal(t, "p-ghost", facts[1].ProjectID)
				assert.Equal(t, 1, stats.Created)
				assert.Empty(t, stats.Skipped)
			},
		},
		{
			name:   "identidade em branco nunca consulta o armazenamento",
			policy: ResolveCreating,
			rows: []domain.RawFactRow{
				rawFact("none", "USD", 0, time.January, 5),
				rawFact("Acme", "", 1, time.January, 5),
			},
			setup: func(repo *mocks.MockProjectRepository) {},
			validate: func(t *testing.T, facts []domain.ResolvedFact, stats ResolveStats) {
				assert.Empty(t, facts)
				assert.Equal(t, 2, stats.Skipped[domain.SkipBlankIdentity])
				assert.Zero(t, stats.Skipped[domain.SkipProjectNotFound])
			},
		},
		{
			name:   "erro do armazenamento é propagado",
			policy: ResolveStrict,
			rows:   []domain.RawFactRow{rawFact("Acme", "USD", 0, time.January, 1)},
			setup: func(repo *mocks.MockProjectRepository) {
				repo.EXPECT().FindByKey(gomock.Any(), acme).Return(nil, errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockProjectRepository(ctrl)
			tt.setup(repo)

			opts := DefaultOptions()
			opts.Resolution = tt.policy
			resolver := NewResolver(repo, opts)

			facts, stats, err := resolver.ResolveAll(ctx, tt.rows)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, errors.Is(err, ErrProjectNotFound))
				return
			}
			require.NoError(t, err)
			tt.validate(t, facts, stats)
		})
	}
}

func TestResolver_CreatesWithoutStatusWhenUnset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockProjectRepository(ctrl)
	repo.EXPECT().FindByKey(gomock.Any(), gomock.Any()).Return(nil, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *domain.Project) error {
		assert.Nil(t, p.Status)
		p.ID = "p-ghost"
		return nil
	})

	opts := DefaultOptions()
	opts.Resolution = ResolveCreating
	opts.DefaultProjectStatus = ""
	require.NoError(t, opts.Validate())

	facts, stats, err := NewResolver(repo, opts).ResolveAll(context.Background(), []domain.RawFactRow{
		rawFact("Ghost", "USD", 0, time.January, 5),
	})
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, 1, stats.Created)
}
