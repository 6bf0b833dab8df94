package sweep

import (
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/optimizer"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

/**
 * Summarize 汇总一个组合的全部试验
 *
 * 只统计成功的试验：逐代平均最优适应度、最后一代的平均值，
 * 以及最后一代最优适应度的最大值、最小值、均值。
 * 最优个体取所有试验中最后一代适应度最好的那个，并列时取较早的试验。
 */
func Summarize(sweepID string, c Combination, records []*domain.TrialRecord, layout seating.Layout, direction optimizer.Direction) *domain.CombinationSummary {
	summary := &domain.CombinationSummary{
		SweepID:     sweepID,
		Combination: c.Record(),
		Trials:      len(records),
	}

	succeeded := make([]*domain.TrialRecord, 0, len(records))
	for _, r := range records {
		if r.Failed() || len(r.Fitness) == 0 {
			summary.Failed++
			continue
		}
		succeeded = append(succeeded, r)
	}
	if len(succeeded) == 0 {
		return summary
	}

	generations := len(succeeded[0].Fitness)
	for _, r := range succeeded[1:] {
		generations = min(generations, len(r.Fitness))
	}

	avg := make([]float64, generations)
	for g := range avg {
		var sum float64
		for _, r := range succeeded {
			sum += r.Fitness[g]
		}
		avg[g] = sum / float64(len(succeeded))
	}
	summary.AvgFitnessPerGeneration = avg
	summary.LastGenerationAvg = avg[generations-1]

	var total float64
	best := succeeded[0]
	summary.MaxFitness = best.BestFitness
	summary.MinFitness = best.BestFitness
	for _, r := range succeeded {
		total += r.BestFitness
		summary.MaxFitness = max(summary.MaxFitness, r.BestFitness)
		summary.MinFitness = min(summary.MinFitness, r.BestFitness)
		if direction.Better(r.BestFitness, best.BestFitness) {
			best = r
		}
	}
	summary.MeanFitness = total / float64(len(succeeded))
	summary.BestArrangement = append([]int(nil), best.BestArrangement...)
	summary.BestTables = seating.Arrangement(summary.BestArrangement).Tables(layout.Tables)

	return summary
}

// BestCombinations 返回最后一代平均适应度最优的所有组合，没有成功试验的组合不参与比较
func BestCombinations(summaries []domain.CombinationSummary, direction optimizer.Direction) []domain.CombinationSummary {
	var best []domain.CombinationSummary
	for _, s := range summaries {
		if len(s.AvgFitnessPerGeneration) == 0 {
			continue
		}
		switch {
		case len(best) == 0 || direction.Better(s.LastGenerationAvg, best[0].LastGenerationAvg):
			best = []domain.CombinationSummary{s}
		case s.LastGenerationAvg == best[0].LastGenerationAvg:
			best = append(best, s)
		}
	}
	return best
}
