package domain

import "time"

// Combination 网格中的一个算子 / 概率组合
type Combination struct {
	Mutation      string  `json:"mutation"`
	Crossover     string  `json:"crossover"`
	Selection     string  `json:"selection"`
	EliteCount    int     `json:"eliteCount"`
	CrossoverRate float64 `json:"crossoverRate"`
	MutationRate  float64 `json:"mutationRate"`
}

// TrialRecord 一次独立试验的结果，Fitness 为每一代最优个体的适应度
type TrialRecord struct {
	SweepID string `json:"sweepID"`
	Combination
	Run             int           `json:"run"`
	Seed            int64         `json:"seed"`
	Fitness         []float64     `json:"fitness"`
	BestFitness     float64       `json:"bestFitness"`
	BestArrangement []int         `json:"bestArrangement"`
	Duration        time.Duration `json:"duration"`
	Error           string        `json:"error,omitempty"` // 非空表示这次试验失败
}

func (r *TrialRecord) Failed() bool {
	return r.Error != ""
}

// CombinationSummary 一个组合所有试验结束后的汇总
type CombinationSummary struct {
	ID      int64  `json:"id"`
	SweepID string `json:"sweepID"`
	Combination
	Trials                  int       `json:"trials"`
	Failed                  int       `json:"failed"`
	AvgFitnessPerGeneration []float64 `json:"avgFitnessPerGeneration"`
	LastGenerationAvg       float64   `json:"lastGenerationAvg"`
	MaxFitness              float64   `json:"maxFitness"`
	MinFitness              float64   `json:"minFitness"`
	MeanFitness             float64   `json:"meanFitness"`
	BestArrangement         []int     `json:"bestArrangement"`
	BestTables              [][]int   `json:"bestTables"`
	CreatedAt               time.Time `json:"createdAt"`
}
