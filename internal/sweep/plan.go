package sweep

import (
	"fmt"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/optimizer"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

// Defaults 请求中未给出的取值
type Defaults struct {
	Parameters  *optimizer.Parameters
	Tables      int
	Trials      int
	Concurrency int
}

// Plan 由一个请求解析得到的、可以直接交给 Runner 的全部内容
type Plan struct {
	Layout seating.Layout
	Matrix *seating.Matrix
	Config *Config
}

func NewPlan(req *domain.SweepRequest, defaults Defaults, seed int64) (*Plan, error) {
	matrix, err := seating.NewMatrix(req.Matrix)
	if err != nil {
		return nil, err
	}

	tables := req.Tables
	if tables == 0 {
		tables = defaults.Tables
	}
	layout := seating.Layout{Guests: matrix.Size(), Tables: tables}
	if err := layout.Check(); err != nil {
		return nil, err
	}

	grid := Grid{
		Elitism:        req.Elitism,
		CrossoverRates: req.CrossoverRates,
		MutationRates:  req.MutationRates,
	}
	for _, name := range req.Mutations {
		kind, err := optimizer.ParseMutationKind(name)
		if err != nil {
			return nil, err
		}
		grid.Mutations = append(grid.Mutations, kind)
	}
	for _, name := range req.Crossovers {
		kind, err := optimizer.ParseCrossoverKind(name)
		if err != nil {
			return nil, err
		}
		grid.Crossovers = append(grid.Crossovers, kind)
	}
	for _, name := range req.Selections {
		kind, err := optimizer.ParseSelectionKind(name)
		if err != nil {
			return nil, err
		}
		grid.Selections = append(grid.Selections, kind)
	}

	base := optimizer.DefaultParameters()
	if defaults.Parameters != nil {
		p := *defaults.Parameters
		base = &p
	}
	if req.PopulationSize > 0 {
		base.PopulationSize = req.PopulationSize
	}
	if req.MaxGenerations > 0 {
		base.MaxGenerations = req.MaxGenerations
	}
	if req.TournamentSize > 0 {
		base.TournamentSize = req.TournamentSize
	}
	if req.CrossoverParents > 0 {
		base.CrossoverParents = req.CrossoverParents
	}
	if req.Minimize {
		base.Direction = optimizer.Minimize
	}

	trials := req.Trials
	if trials == 0 {
		trials = defaults.Trials
	}

	cfg := &Config{
		Grid:        grid,
		Base:        base,
		Trials:      trials,
		Concurrency: defaults.Concurrency,
		Seed:        seed,
	}
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("每个组合至少需要 1 次试验 (当前为 %d)", cfg.Trials)
	}

	for _, c := range cfg.Combinations() {
		if _, err := optimizer.New(c.Parameters(base), layout, matrix); err != nil {
			return nil, fmt.Errorf("组合 %s 无效: %w", c, err)
		}
	}

	return &Plan{Layout: layout, Matrix: matrix, Config: cfg}, nil
}
