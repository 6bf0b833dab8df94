package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/sweep"
)

type Store interface {
	GetSweepByID(ctx context.Context, id string) (*domain.Sweep, error)
	UpdateSweepStatus(ctx context.Context, sweep *domain.Sweep, status domain.SweepStatus, errMsg string) error
}

type Publisher interface {
	PublishJSON(ctx context.Context, queue string, v any) error
}

type Processor struct {
	store     Store
	sink      sweep.Sink
	defaults  sweep.Defaults
	publisher Publisher // 为 nil 时不发送通知邮件
	mailQueue string
	logger    *slog.Logger
}

func NewProcessor(store Store, sink sweep.Sink, defaults sweep.Defaults, publisher Publisher, mailQueue string, logger *slog.Logger) *Processor {
	return &Processor{
		store:     store,
		sink:      sink,
		defaults:  defaults,
		publisher: publisher,
		mailQueue: mailQueue,
		logger:    logger,
	}
}

/**
 * Process 执行一个网格搜索任务
 *
 * pending -> running -> finished / failed
 * 已经结束的任务直接跳过；处于 running 的任务说明上一次执行被中断，
 * 已写入的试验记录无法区分，因此直接标记为失败。
 * 只有状态无法更新时才返回错误。
 */
func (p *Processor) Process(ctx context.Context, job domain.SweepJob) error {
	s, err := p.store.GetSweepByID(ctx, job.SweepID)
	if err != nil {
		return fmt.Errorf("无法读取网格搜索 %s: %w", job.SweepID, err)
	}

	switch s.Status {
	case domain.SweepStatusFinished, domain.SweepStatusFailed:
		p.logger.Warn("网格搜索已经结束，跳过", slog.String("sweepID", s.ID), slog.String("status", string(s.Status)))
		return nil
	case domain.SweepStatusRunning:
		return p.finish(ctx, s, nil, errors.New("上一次执行被中断"))
	}

	if err := p.store.UpdateSweepStatus(ctx, s, domain.SweepStatusRunning, ""); err != nil {
		return fmt.Errorf("无法更新网格搜索状态: %w", err)
	}
	p.logger.Info("开始网格搜索", slog.String("sweepID", s.ID), slog.Int("totalTrials", s.TotalTrials))

	report, runErr := p.run(ctx, s)
	return p.finish(ctx, s, report, runErr)
}

func (p *Processor) run(ctx context.Context, s *domain.Sweep) (*sweep.Report, error) {
	plan, err := sweep.NewPlan(&s.Request, p.defaults, s.Seed)
	if err != nil {
		return nil, err
	}

	runner := sweep.NewRunner(plan.Layout, plan.Matrix, sweep.WithSink(p.sink), sweep.WithLogger(p.logger))
	return runner.Run(ctx, s.ID, plan.Config)
}

func (p *Processor) finish(ctx context.Context, s *domain.Sweep, report *sweep.Report, runErr error) error {
	status, errMsg := domain.SweepStatusFinished, ""
	if runErr != nil {
		status, errMsg = domain.SweepStatusFailed, runErr.Error()
		p.logger.Error("网格搜索失败", slog.String("sweepID", s.ID), slog.String("error", errMsg))
	}

	// ctx 可能已经被取消，状态仍然需要写回
	if err := p.store.UpdateSweepStatus(context.WithoutCancel(ctx), s, status, errMsg); err != nil {
		return fmt.Errorf("无法更新网格搜索状态: %w", err)
	}
	metrics.ObserveSweep(status)

	p.notify(ctx, s, report)
	return nil
}

func (p *Processor) notify(ctx context.Context, s *domain.Sweep, report *sweep.Report) {
	if p.publisher == nil || s.Request.NotifyEmail == "" {
		return
	}

	data := domain.SweepFinishedMailData{
		Name:    s.Name,
		SweepID: s.ID,
		Status:  string(s.Status),
		Error:   s.Error,
	}
	if report != nil {
		data.Combinations = len(report.Summaries)
		data.FailedTrials = report.FailedTrials
		if len(report.Best) > 0 {
			best := report.Best[0]
			data.BestMutation = best.Mutation
			data.BestCrossover = best.Crossover
			data.BestSelection = best.Selection
			data.BestEliteCount = best.EliteCount
			data.BestAvgFitness = best.LastGenerationAvg
			data.BestFitness = best.MaxFitness
			if s.Request.Minimize {
				data.BestFitness = best.MinFitness
			}
		}
	}

	mailMessage := domain.MailMessage{
		Type: "sweep_finished",
		To:   s.Request.NotifyEmail,
		Data: data,
	}

	// 通知失败不影响任务本身的结果
	if err := p.publisher.PublishJSON(context.WithoutCancel(ctx), p.mailQueue, mailMessage); err != nil {
		p.logger.Error("无法发送通知邮件", slog.String("sweepID", s.ID), slog.String("error", err.Error()))
	}
}
