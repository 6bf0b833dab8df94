package domain

import "time"

type SweepStatus string

const (
	SweepStatusPending  SweepStatus = "pending"
	SweepStatusRunning  SweepStatus = "running"
	SweepStatusFinished SweepStatus = "finished"
	SweepStatusFailed   SweepStatus = "failed"
)

// SweepRequest 一次网格搜索的全部输入，原样保存在数据库中供 worker 读取
type SweepRequest struct {
	Name             string      `json:"name" validate:"required,max=100"`
	Matrix           [][]float64 `json:"matrix" validate:"required,min=2,dive,required"`
	Tables           int         `json:"tables" validate:"omitempty,min=1"`
	Mutations        []string    `json:"mutations" validate:"required,min=1,dive,required"`
	Crossovers       []string    `json:"crossovers" validate:"required,min=1,dive,required"`
	Selections       []string    `json:"selections" validate:"required,min=1,dive,required"`
	Elitism          []int       `json:"elitism" validate:"omitempty,dive,min=0"`
	CrossoverRates   []float64   `json:"crossoverRates" validate:"omitempty,dive,min=0,max=1"`
	MutationRates    []float64   `json:"mutationRates" validate:"omitempty,dive,min=0,max=1"`
	PopulationSize   int         `json:"populationSize" validate:"omitempty,min=2"`
	MaxGenerations   int         `json:"maxGenerations" validate:"omitempty,min=1"`
	Trials           int         `json:"trials" validate:"omitempty,min=1"`
	TournamentSize   int         `json:"tournamentSize" validate:"omitempty,min=1"`
	CrossoverParents int         `json:"crossoverParents" validate:"omitempty,min=3"`
	Minimize         bool        `json:"minimize"`
	Seed             *int64      `json:"seed"`
	NotifyEmail      string      `json:"notifyEmail" validate:"omitempty,email"`
}

type Sweep struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Status      SweepStatus  `json:"status"`
	Request     SweepRequest `json:"-"`
	TotalTrials int          `json:"totalTrials"`
	Seed        int64        `json:"seed"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	StartedAt   *time.Time   `json:"startedAt"`
	FinishedAt  *time.Time   `json:"finishedAt"`
	Version     int32        `json:"-"`
}

// SweepJob 通过 rabbitmq 投递给 worker 的消息
type SweepJob struct {
	SweepID string `json:"sweepID"`
}

// SweepProgress 保存在 redis 中的实时进度
type SweepProgress struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}
