package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/metrics"
)

type SweepStore interface {
	CreateSweep(ctx context.Context, sweep *domain.Sweep) error
	GetSweepByID(ctx context.Context, id string) (*domain.Sweep, error)
	GetCombinationSummariesBySweepID(ctx context.Context, sweepID string, tables int) ([]*domain.CombinationSummary, error)
}

type ProgressStore interface {
	Start(ctx context.Context, sweepID string, total int) error
	Get(ctx context.Context, sweepID string) (*domain.SweepProgress, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, queue string, v any) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository SweepStore
	translator ut.Translator
	progress   ProgressStore
	publisher  Publisher

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo SweepStore, progress ProgressStore, publisher Publisher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		progress:   progress,
		publisher:  publisher,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Handle("/metrics", metrics.Handler())

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/evolve", h.Evolve)

		r.Route("/sweeps", func(r chi.Router) {
			r.Post("/", h.CreateSweep)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.sweep)
				r.Get("/", h.GetSweep)
				r.Get("/summaries", h.GetSweepSummaries)
			})
		})
	})
}
