package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/optimizer"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
	"golang.org/x/sync/errgroup"
)

// EvolveFunc 完成一次独立试验，默认为 optimizer.Evolve
type EvolveFunc func(ctx context.Context, layout seating.Layout, matrix *seating.Matrix, parameters *optimizer.Parameters, seed int64) (*optimizer.Result, error)

type Config struct {
	Grid
	Base        *optimizer.Parameters // 网格之外的参数：种群大小、代数、锦标赛规模、父本数、方向
	Trials      int                   // 每个组合的独立试验次数
	Concurrency int                   // 同时运行的试验数，<= 0 时取 GOMAXPROCS
	Seed        int64                 // 所有试验种子都由它派生
}

func (c *Config) Combinations() []Combination {
	return c.Grid.Combinations(c.Base)
}

func (c *Config) TotalTrials() int {
	return len(c.Combinations()) * c.Trials
}

type Report struct {
	SweepID      string
	Summaries    []domain.CombinationSummary // 与网格遍历顺序一致
	Best         []domain.CombinationSummary // 最后一代平均适应度最优的组合，包含并列
	FailedTrials int
}

type Runner struct {
	layout seating.Layout
	matrix *seating.Matrix
	sink   Sink
	logger *slog.Logger
	evolve EvolveFunc
}

type Option func(*Runner)

func WithSink(sink Sink) Option {
	return func(r *Runner) {
		r.sink = sink
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithEvolveFunc(evolve EvolveFunc) Option {
	return func(r *Runner) {
		r.evolve = evolve
	}
}

func NewRunner(layout seating.Layout, matrix *seating.Matrix, opts ...Option) *Runner {
	r := &Runner{
		layout: layout,
		matrix: matrix,
		sink:   discard{},
		logger: slog.Default(),
		evolve: optimizer.Evolve,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

/**
 * Run 依次处理网格中的每个组合
 *
 * 一个组合的所有试验并发执行，全部结束后才进行汇总。
 * 单次试验失败只会被记录下来，不会影响其它试验；
 * Sink 写入失败或 ctx 被取消则终止整个搜索。
 */
func (r *Runner) Run(ctx context.Context, sweepID string, cfg *Config) (*Report, error) {
	if cfg == nil || cfg.Base == nil {
		return nil, errors.New("缺少网格搜索的基础参数")
	}
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("每个组合至少需要 1 次试验 (当前为 %d)", cfg.Trials)
	}

	combinations := cfg.Combinations()

	// 在启动任何试验之前检查每个组合都是合法的
	for _, c := range combinations {
		if _, err := optimizer.New(c.Parameters(cfg.Base), r.layout, r.matrix); err != nil {
			return nil, fmt.Errorf("组合 %s 无效: %w", c, err)
		}
	}

	// 所有种子预先生成，结果与并发度无关
	rng := rand.New(rand.NewSource(cfg.Seed))
	seeds := make([][]int64, len(combinations))
	for i := range seeds {
		seeds[i] = make([]int64, cfg.Trials)
		for t := range seeds[i] {
			seeds[i][t] = rng.Int63()
		}
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	report := &Report{
		SweepID:   sweepID,
		Summaries: make([]domain.CombinationSummary, 0, len(combinations)),
	}

	for i, c := range combinations {
		records, err := r.runCombination(ctx, sweepID, c, cfg.Base, seeds[i], concurrency)
		if err != nil {
			return nil, err
		}

		summary := Summarize(sweepID, c, records, r.layout, cfg.Base.Direction)
		if err := r.sink.RecordSummary(ctx, summary); err != nil {
			return nil, fmt.Errorf("无法记录组合 %s 的汇总: %w", c, err)
		}

		report.Summaries = append(report.Summaries, *summary)
		report.FailedTrials += summary.Failed
	}

	report.Best = BestCombinations(report.Summaries, cfg.Base.Direction)

	r.logger.Info("网格搜索完成",
		slog.String("sweepID", sweepID),
		slog.Int("combinations", len(combinations)),
		slog.Int("failedTrials", report.FailedTrials),
	)

	return report, nil
}

func (r *Runner) runCombination(ctx context.Context, sweepID string, c Combination, base *optimizer.Parameters, seeds []int64, concurrency int) ([]*domain.TrialRecord, error) {
	records := make([]*domain.TrialRecord, len(seeds))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for t, seed := range seeds {
		t, seed := t, seed
		g.Go(func() error {
			record := r.trial(gCtx, sweepID, c, c.Parameters(base), t+1, seed)
			records[t] = record
			if err := r.sink.RecordTrial(gCtx, record); err != nil {
				return fmt.Errorf("无法记录第 %d 次试验: %w", record.Run, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Runner) trial(ctx context.Context, sweepID string, c Combination, parameters *optimizer.Parameters, run int, seed int64) *domain.TrialRecord {
	record := &domain.TrialRecord{
		SweepID:     sweepID,
		Combination: c.Record(),
		Run:         run,
		Seed:        seed,
	}

	start := time.Now()
	result, err := r.evolve(ctx, r.layout, r.matrix, parameters, seed)
	record.Duration = time.Since(start)
	if err != nil {
		record.Error = err.Error()
		return record
	}

	record.Fitness = result.Trace
	record.BestFitness = result.Best.Fitness()
	record.BestArrangement = result.Best.Arrangement()
	return record
}
