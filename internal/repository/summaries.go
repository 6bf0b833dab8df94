package repository

import (
	"context"
	"encoding/json"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

func (r *Repository) InsertCombinationSummary(ctx context.Context, summary *domain.CombinationSummary) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	avg, err := json.Marshal(summary.AvgFitnessPerGeneration)
	if err != nil {
		return err
	}
	arrangement, err := json.Marshal(summary.BestArrangement)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO combination_summaries (
			sweep_id, mutation, crossover, selection, elite_count, crossover_rate, mutation_rate,
			trials, failed, avg_fitness_per_generation, last_generation_avg,
			max_fitness, min_fitness, mean_fitness, best_arrangement
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at
	`

	args := []any{
		summary.SweepID, summary.Mutation, summary.Crossover, summary.Selection, summary.EliteCount,
		summary.CrossoverRate, summary.MutationRate, summary.Trials, summary.Failed, avg,
		summary.LastGenerationAvg, summary.MaxFitness, summary.MinFitness, summary.MeanFitness, arrangement,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&summary.ID, &summary.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) RecordSummary(ctx context.Context, summary *domain.CombinationSummary) error {
	return r.InsertCombinationSummary(ctx, summary)
}

// GetCombinationSummariesBySweepID 按写入顺序（即网格遍历顺序）返回汇总
func (r *Repository) GetCombinationSummariesBySweepID(ctx context.Context, sweepID string, tables int) ([]*domain.CombinationSummary, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT
			id, mutation, crossover, selection, elite_count, crossover_rate, mutation_rate,
			trials, failed, avg_fitness_per_generation, last_generation_avg,
			max_fitness, min_fitness, mean_fitness, best_arrangement, created_at
		FROM combination_summaries
		WHERE sweep_id = $1
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, sweepID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]*domain.CombinationSummary, 0)
	for rows.Next() {
		summary := &domain.CombinationSummary{
			SweepID: sweepID,
		}

		var avg, arrangement []byte
		dst := []any{
			&summary.ID,
			&summary.Mutation,
			&summary.Crossover,
			&summary.Selection,
			&summary.EliteCount,
			&summary.CrossoverRate,
			&summary.MutationRate,
			&summary.Trials,
			&summary.Failed,
			&avg,
			&summary.LastGenerationAvg,
			&summary.MaxFitness,
			&summary.MinFitness,
			&summary.MeanFitness,
			&arrangement,
			&summary.CreatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(avg, &summary.AvgFitnessPerGeneration); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(arrangement, &summary.BestArrangement); err != nil {
			return nil, err
		}
		if len(summary.BestArrangement) > 0 {
			summary.BestTables = seating.Arrangement(summary.BestArrangement).Tables(tables)
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
