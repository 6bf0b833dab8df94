package sweep

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
)

// Sink 接收试验记录与组合汇总，实现必须可以被多个 goroutine 同时调用
type Sink interface {
	RecordTrial(ctx context.Context, record *domain.TrialRecord) error
	RecordSummary(ctx context.Context, summary *domain.CombinationSummary) error
}

// Sinks 将记录依次转发给每一个 Sink
type Sinks []Sink

func (s Sinks) RecordTrial(ctx context.Context, record *domain.TrialRecord) error {
	var errs []error
	for _, sink := range s {
		if err := sink.RecordTrial(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s Sinks) RecordSummary(ctx context.Context, summary *domain.CombinationSummary) error {
	var errs []error
	for _, sink := range s {
		if err := sink.RecordSummary(ctx, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s LogSink) RecordTrial(ctx context.Context, record *domain.TrialRecord) error {
	attrs := []any{
		slog.String("sweepID", record.SweepID),
		slog.String("mutation", record.Mutation),
		slog.String("crossover", record.Crossover),
		slog.String("selection", record.Selection),
		slog.Int("eliteCount", record.EliteCount),
		slog.Int("run", record.Run),
		slog.Int64("seed", record.Seed),
		slog.Duration("duration", record.Duration),
	}
	if record.Failed() {
		s.logger().WarnContext(ctx, "试验失败", append(attrs, slog.String("error", record.Error))...)
		return nil
	}
	s.logger().DebugContext(ctx, "试验完成", append(attrs, slog.Float64("bestFitness", record.BestFitness))...)
	return nil
}

func (s LogSink) RecordSummary(ctx context.Context, summary *domain.CombinationSummary) error {
	s.logger().InfoContext(ctx, "组合汇总",
		slog.String("sweepID", summary.SweepID),
		slog.String("mutation", summary.Mutation),
		slog.String("crossover", summary.Crossover),
		slog.String("selection", summary.Selection),
		slog.Int("eliteCount", summary.EliteCount),
		slog.Float64("crossoverRate", summary.CrossoverRate),
		slog.Float64("mutationRate", summary.MutationRate),
		slog.Int("trials", summary.Trials),
		slog.Int("failed", summary.Failed),
		slog.Float64("lastGenerationAvg", summary.LastGenerationAvg),
		slog.Float64("max", summary.MaxFitness),
		slog.Float64("min", summary.MinFitness),
		slog.Float64("mean", summary.MeanFitness),
	)
	return nil
}

type discard struct{}

func (discard) RecordTrial(context.Context, *domain.TrialRecord) error          { return nil }
func (discard) RecordSummary(context.Context, *domain.CombinationSummary) error { return nil }
