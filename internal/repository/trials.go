package repository

import (
	"context"
	"encoding/json"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
)

// InsertTrialRecord 写入一次试验以及每一代的最优适应度
func (r *Repository) InsertTrialRecord(ctx context.Context, record *domain.TrialRecord) error {
	ctx, cancel := r.transactionContext(ctx)
	defer cancel()

	arrangement, err := json.Marshal(record.BestArrangement)
	if err != nil {
		return err
	}

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO trials (
			sweep_id, run, mutation, crossover, selection, elite_count,
			crossover_rate, mutation_rate, seed, best_fitness, best_arrangement, duration_ms, error
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	args := []any{
		record.SweepID, record.Run, record.Mutation, record.Crossover, record.Selection, record.EliteCount,
		record.CrossoverRate, record.MutationRate, record.Seed, record.BestFitness, arrangement,
		record.Duration.Milliseconds(), record.Error,
	}

	var trialID int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&trialID); err != nil {
		return err
	}

	if len(record.Fitness) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO trial_generations (trial_id, generation, fitness)
			VALUES ($1, $2, $3)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		// 代数从 1 开始
		for i, fitness := range record.Fitness {
			if _, err := stmt.ExecContext(ctx, trialID, i+1, fitness); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// RecordTrial 使 Repository 可以作为网格搜索的 Sink
func (r *Repository) RecordTrial(ctx context.Context, record *domain.TrialRecord) error {
	return r.InsertTrialRecord(ctx, record)
}
