package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
)

var (
	// trialsTotal 按算子组合与结果统计试验次数
	trialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seating_trials_total",
		Help: "Total optimizer trials by operator combination and result",
	}, []string{"mutation", "crossover", "selection", "result"})

	trialDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seating_trial_duration_seconds",
		Help:    "Optimizer trial duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms 到约 80s
	}, []string{"mutation", "crossover", "selection"})

	generationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seating_generations_total",
		Help: "Total generations evolved across all successful trials",
	})

	// lastGenerationAvg 每个组合最近一次汇总的最后一代平均适应度
	lastGenerationAvg = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "seating_combination_last_generation_avg_fitness",
		Help: "Mean last-generation best fitness of the most recent summary per combination",
	}, []string{"mutation", "crossover", "selection"})

	sweepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seating_sweeps_total",
		Help: "Total sweeps by final status",
	}, []string{"status"})
)

// Sink 将试验与汇总转换为 prometheus 指标
type Sink struct{}

func (Sink) RecordTrial(_ context.Context, record *domain.TrialRecord) error {
	result := "success"
	if record.Failed() {
		result = "failure"
	} else {
		generationsTotal.Add(float64(len(record.Fitness)))
	}
	trialsTotal.WithLabelValues(record.Mutation, record.Crossover, record.Selection, result).Inc()
	trialDuration.WithLabelValues(record.Mutation, record.Crossover, record.Selection).Observe(record.Duration.Seconds())
	return nil
}

func (Sink) RecordSummary(_ context.Context, summary *domain.CombinationSummary) error {
	if len(summary.AvgFitnessPerGeneration) == 0 {
		return nil
	}
	lastGenerationAvg.WithLabelValues(summary.Mutation, summary.Crossover, summary.Selection).Set(summary.LastGenerationAvg)
	return nil
}

func ObserveSweep(status domain.SweepStatus) {
	sweepsTotal.WithLabelValues(string(status)).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
