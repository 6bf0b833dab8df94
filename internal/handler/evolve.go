package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/optimizer"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/utils"
)

// Evolve 同步地完成一次进化，代数、种群大小和宾客数量受 SWEEP_MAX_SYNC_* 限制
func (h *Handler) Evolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Matrix           [][]float64 `json:"matrix" validate:"required,min=2,dive,required"`
		Tables           int         `json:"tables" validate:"omitempty,min=1"`
		Selection        string      `json:"selection"`
		Crossover        string      `json:"crossover"`
		Mutation         string      `json:"mutation"`
		PopulationSize   int         `json:"populationSize" validate:"omitempty,min=2"`
		MaxGenerations   int         `json:"maxGenerations" validate:"omitempty,min=1"`
		CrossoverRate    *float64    `json:"crossoverRate" validate:"omitempty,min=0,max=1"`
		MutationRate     *float64    `json:"mutationRate" validate:"omitempty,min=0,max=1"`
		EliteCount       *int        `json:"eliteCount" validate:"omitempty,min=0"`
		TournamentSize   int         `json:"tournamentSize" validate:"omitempty,min=1"`
		CrossoverParents int         `json:"crossoverParents" validate:"omitempty,min=3"`
		Minimize         bool        `json:"minimize"`
		Seed             *int64      `json:"seed"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if len(req.Matrix) > h.config.Sweep.MaxSyncGuests {
		h.badRequest(w, r, fmt.Errorf("同步进化最多 %d 位宾客", h.config.Sweep.MaxSyncGuests))
		return
	}

	tables := req.Tables
	if tables == 0 {
		tables = h.config.Layout.Tables
	}
	if err := utils.ValidateMatrix(req.Matrix, tables); err != nil {
		h.badRequest(w, r, err)
		return
	}

	p := h.config.OptimizerParameters()
	if req.Selection != "" {
		kind, err := optimizer.ParseSelectionKind(req.Selection)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		p.Selection = kind
	}
	if req.Crossover != "" {
		kind, err := optimizer.ParseCrossoverKind(req.Crossover)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		p.Crossover = kind
	}
	if req.Mutation != "" {
		kind, err := optimizer.ParseMutationKind(req.Mutation)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		p.Mutation = kind
	}
	if req.PopulationSize > 0 {
		p.PopulationSize = req.PopulationSize
	}
	if req.MaxGenerations > 0 {
		p.MaxGenerations = req.MaxGenerations
	}
	if req.CrossoverRate != nil {
		p.CrossoverRate = *req.CrossoverRate
	}
	if req.MutationRate != nil {
		p.MutationRate = *req.MutationRate
	}
	if req.EliteCount != nil {
		p.EliteCount = *req.EliteCount
	}
	if req.TournamentSize > 0 {
		p.TournamentSize = req.TournamentSize
	}
	if req.CrossoverParents > 0 {
		p.CrossoverParents = req.CrossoverParents
	}
	if req.Minimize {
		p.Direction = optimizer.Minimize
	}

	if p.MaxGenerations > h.config.Sweep.MaxSyncGenerations {
		h.badRequest(w, r, fmt.Errorf("同步进化最多 %d 代，更大的任务请提交网格搜索", h.config.Sweep.MaxSyncGenerations))
		return
	}
	if p.PopulationSize > h.config.Sweep.MaxSyncPopulation {
		h.badRequest(w, r, fmt.Errorf("同步进化的种群最多 %d 个个体，更大的任务请提交网格搜索", h.config.Sweep.MaxSyncPopulation))
		return
	}

	matrix, err := seating.NewMatrix(req.Matrix)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	layout := seating.Layout{Guests: matrix.Size(), Tables: tables}

	o, err := optimizer.New(p, layout, matrix)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	result, err := o.Run(r.Context(), seed)
	if err != nil {
		switch {
		case errors.Is(err, optimizer.ErrDegenerateWeights):
			h.errorResponse(w, r, "轮盘赌选择的权重无效，请更换选择算子")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "进化完成", struct {
		Seed        int64     `json:"seed"`
		Fitness     float64   `json:"fitness"`
		Arrangement []int     `json:"arrangement"`
		Tables      [][]int   `json:"tables"`
		Trace       []float64 `json:"trace"`
	}{
		Seed:        seed,
		Fitness:     result.Best.Fitness(),
		Arrangement: result.Best.Arrangement(),
		Tables:      result.Best.Tables(),
		Trace:       result.Trace,
	})
}
