package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// 需要一个可用的 postgres，通过 SEATING_TEST_DATABASE_DSN 指定
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := os.Getenv("SEATING_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("未设置 SEATING_TEST_DATABASE_DSN")
	}

	dbpool, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbpool.Close() })

	schema, err := os.ReadFile("../../migrations/000001_create_sweeps.up.sql")
	require.NoError(t, err)
	_, err = dbpool.Exec(string(schema))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 10
	cfg.Database.TransactionTimeout = 20

	return NewRepository(cfg, dbpool)
}

func TestSweepLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	sweep := &domain.Sweep{
		ID:          uuid.NewString(),
		Name:        "wedding",
		Status:      domain.SweepStatusPending,
		Request:     domain.SweepRequest{Name: "wedding", Mutations: []string{"swap"}, Tables: 2},
		TotalTrials: 1,
		Seed:        5,
	}
	require.NoError(t, repo.CreateSweep(ctx, sweep))
	assert.Equal(t, int32(1), sweep.Version)

	got, err := repo.GetSweepByID(ctx, sweep.ID)
	require.NoError(t, err)
	assert.Equal(t, sweep.Request, got.Request)
	assert.Nil(t, got.StartedAt)

	require.NoError(t, repo.UpdateSweepStatus(ctx, got, domain.SweepStatusRunning, ""))
	assert.NotNil(t, got.StartedAt)

	// 旧版本的更新会被乐观锁拒绝
	err = repo.UpdateSweepStatus(ctx, sweep, domain.SweepStatusFailed, "stale")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, repo.RecordTrial(ctx, &domain.TrialRecord{
		SweepID:         sweep.ID,
		Combination:     domain.Combination{Mutation: "swap", Crossover: "cycle", Selection: "ranking", EliteCount: 1},
		Run:             1,
		Seed:            9,
		Fitness:         []float64{1, 2, 3},
		BestFitness:     3,
		BestArrangement: []int{0, 0, 1, 1},
		Duration:        time.Millisecond,
	}))

	require.NoError(t, repo.RecordSummary(ctx, &domain.CombinationSummary{
		SweepID:                 sweep.ID,
		Combination:             domain.Combination{Mutation: "swap", Crossover: "cycle", Selection: "ranking", EliteCount: 1},
		Trials:                  1,
		AvgFitnessPerGeneration: []float64{1, 2, 3},
		LastGenerationAvg:       3,
		MaxFitness:              3,
		MinFitness:              3,
		MeanFitness:             3,
		BestArrangement:         []int{0, 0, 1, 1},
	}))

	summaries, err := repo.GetCombinationSummariesBySweepID(ctx, sweep.ID, 2)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, []float64{1, 2, 3}, summaries[0].AvgFitnessPerGeneration)
	assert.Equal(t, [][]int{{0, 1}, {2, 3}}, summaries[0].BestTables)

	require.NoError(t, repo.UpdateSweepStatus(ctx, got, domain.SweepStatusFinished, ""))
	assert.NotNil(t, got.FinishedAt)

	_, err = repo.GetSweepByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
