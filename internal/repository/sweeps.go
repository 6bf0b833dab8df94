package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
)

func (r *Repository) CreateSweep(ctx context.Context, sweep *domain.Sweep) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	request, err := json.Marshal(sweep.Request)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sweeps (id, name, status, request, total_trials, seed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, version
	`

	args := []any{sweep.ID, sweep.Name, sweep.Status, request, sweep.TotalTrials, sweep.Seed}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sweep.CreatedAt, &sweep.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSweepByID(ctx context.Context, id string) (*domain.Sweep, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT name, status, request, total_trials, seed, error, created_at, started_at, finished_at, version
		FROM sweeps WHERE id = $1
	`

	sweep := &domain.Sweep{
		ID: id,
	}

	var (
		request    []byte
		startedAt  sql.NullTime
		finishedAt sql.NullTime
	)
	dst := []any{&sweep.Name, &sweep.Status, &request, &sweep.TotalTrials, &sweep.Seed, &sweep.Error, &sweep.CreatedAt, &startedAt, &finishedAt, &sweep.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(request, &sweep.Request); err != nil {
		return nil, err
	}
	if startedAt.Valid {
		sweep.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		sweep.FinishedAt = &finishedAt.Time
	}

	return sweep, nil
}

// UpdateSweepStatus 使用乐观锁更新状态，版本不一致时返回 sql.ErrNoRows
func (r *Repository) UpdateSweepStatus(ctx context.Context, sweep *domain.Sweep, status domain.SweepStatus, errMsg string) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	now := time.Now()
	startedAt, finishedAt := sweep.StartedAt, sweep.FinishedAt
	switch status {
	case domain.SweepStatusRunning:
		startedAt = &now
	case domain.SweepStatusFinished, domain.SweepStatusFailed:
		finishedAt = &now
	}

	query := `
		UPDATE sweeps
		SET
			status = $1,
			error = $2,
			started_at = $3,
			finished_at = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	args := []any{status, errMsg, startedAt, finishedAt, sweep.ID, sweep.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sweep.Version); err != nil {
		return err
	}

	sweep.Status = status
	sweep.Error = errMsg
	sweep.StartedAt = startedAt
	sweep.FinishedAt = finishedAt

	return nil
}
