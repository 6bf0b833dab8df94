package progress

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
)

var ErrNotFound = errors.New("进度不存在")

const (
	fieldTotal     = "total"
	fieldCompleted = "completed"
	fieldFailed    = "failed"
)

func key(sweepID string) string {
	return fmt.Sprintf("sweep_progress_%s", sweepID)
}

// Tracker 在 redis 中维护网格搜索的实时进度，每个搜索对应一个 hash
type Tracker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTracker(rdb *redis.Client, ttl time.Duration) *Tracker {
	return &Tracker{
		rdb: rdb,
		ttl: ttl,
	}
}

func (t *Tracker) Start(ctx context.Context, sweepID string, total int) error {
	_, err := t.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key(sweepID), fieldTotal, total, fieldCompleted, 0, fieldFailed, 0)
		pipe.Expire(ctx, key(sweepID), t.ttl)
		return nil
	})
	return err
}

func (t *Tracker) Get(ctx context.Context, sweepID string) (*domain.SweepProgress, error) {
	values, err := t.rdb.HGetAll(ctx, key(sweepID)).Result()
	if err != nil {
		return nil, err
	}
	return parse(values)
}

// RecordTrial 每完成一次试验推进一次进度
func (t *Tracker) RecordTrial(ctx context.Context, record *domain.TrialRecord) error {
	_, err := t.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key(record.SweepID), fieldCompleted, 1)
		if record.Failed() {
			pipe.HIncrBy(ctx, key(record.SweepID), fieldFailed, 1)
		}
		// 键过期后会被 HIncrBy 重新创建，需要重新设置过期时间
		pipe.Expire(ctx, key(record.SweepID), t.ttl)
		return nil
	})
	return err
}

func (t *Tracker) RecordSummary(context.Context, *domain.CombinationSummary) error {
	return nil
}

func parse(values map[string]string) (*domain.SweepProgress, error) {
	if len(values) == 0 {
		return nil, ErrNotFound
	}

	progress := &domain.SweepProgress{}
	fields := map[string]*int64{
		fieldTotal:     &progress.Total,
		fieldCompleted: &progress.Completed,
		fieldFailed:    &progress.Failed,
	}
	for name, dst := range fields {
		raw, ok := values[name]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("进度字段 %s 的值 %q 无效: %w", name, raw, err)
		}
		*dst = n
	}
	return progress, nil
}
