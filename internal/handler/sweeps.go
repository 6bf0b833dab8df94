package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/optimizer"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/progress"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/sweep"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/utils"
)

func (h *Handler) CreateSweep(w http.ResponseWriter, r *http.Request) {
	req := domain.SweepRequest{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateSweepRequest(&req, h.config.Layout.Tables, h.config.Optimizer.PopulationSize); err != nil {
		h.badRequest(w, r, err)
		return
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	// 在入队之前解析算子并检查每个组合，未知算子在这里就会被拒绝
	plan, err := sweep.NewPlan(&req, h.config.SweepDefaults(), seed)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	s := &domain.Sweep{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Status:      domain.SweepStatusPending,
		Request:     req,
		TotalTrials: plan.Config.TotalTrials(),
		Seed:        seed,
	}

	if err := h.repository.CreateSweep(r.Context(), s); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.progress.Start(r.Context(), s.ID, s.TotalTrials); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 将任务发送到消息队列，由 worker 执行
	if err := h.publisher.PublishJSON(r.Context(), h.config.RabbitMQ.SweepQueue, domain.SweepJob{SweepID: s.ID}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "网格搜索已提交", s)
}

func (h *Handler) GetSweep(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(SweepCtx).(*domain.Sweep)

	p, err := h.progress.Get(r.Context(), s.ID)
	if err != nil && !errors.Is(err, progress.ErrNotFound) {
		h.internalServerError(w, r, err)
		return
	}

	// 进度在 redis 中过期后只返回数据库中的状态
	h.successResponse(w, r, "获取网格搜索成功", struct {
		*domain.Sweep
		Progress *domain.SweepProgress `json:"progress"`
	}{
		Sweep:    s,
		Progress: p,
	})
}

func (h *Handler) GetSweepSummaries(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(SweepCtx).(*domain.Sweep)

	tables := s.Request.Tables
	if tables == 0 {
		tables = h.config.Layout.Tables
	}

	summaries, err := h.repository.GetCombinationSummariesBySweepID(r.Context(), s.ID, tables)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	values := make([]domain.CombinationSummary, 0, len(summaries))
	for _, summary := range summaries {
		values = append(values, *summary)
	}

	direction := optimizer.Maximize
	if s.Request.Minimize {
		direction = optimizer.Minimize
	}

	h.successResponse(w, r, "获取组合汇总成功", struct {
		Summaries []domain.CombinationSummary `json:"summaries"`
		Best      []domain.CombinationSummary `json:"best"`
	}{
		Summaries: values,
		Best:      sweep.BestCombinations(values, direction),
	})
}
