package optimizer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

func toyParameters() *Parameters {
	return &Parameters{
		PopulationSize: 10,
		MaxGenerations: 1,
		CrossoverRate:  1.0,
		MutationRate:   0.0,
		EliteCount:     1,
		Selection:      SelectionTournament,
		Crossover:      CrossoverOnePoint,
		Mutation:       MutationSwap,
		TournamentSize: 2,
	}
}

func TestEvolveIsReproducible(t *testing.T) {
	m := symmetricMatrix(t, 8, 40)

	first, err := Evolve(context.Background(), toyLayout, m, toyParameters(), 2024)
	require.NoError(t, err)
	second, err := Evolve(context.Background(), toyLayout, m, toyParameters(), 2024)
	require.NoError(t, err)

	require.Len(t, first.Trace, 1)
	assert.Equal(t, first.Trace, second.Trace)
	assert.Equal(t, first.Best.Arrangement(), second.Best.Arrangement())
	assert.Equal(t, first.Best.Fitness(), second.Best.Fitness())
	assert.Equal(t, first.Trace[0], first.Best.Fitness())
	assert.NoError(t, toyLayout.Validate(first.Best.Arrangement()))
}

func TestRunDoesNotDependOnWorkers(t *testing.T) {
	m := symmetricMatrix(t, 64, 41)
	p := DefaultParameters()
	p.MaxGenerations = 5
	p.PopulationSize = 21
	p.Mutation = MutationHeuristic

	serial, err := Evolve(context.Background(), seating.DefaultLayout, m, p, 7)
	require.NoError(t, err)

	parallel := *p
	parallel.Workers = 4
	concurrent, err := Evolve(context.Background(), seating.DefaultLayout, m, &parallel, 7)
	require.NoError(t, err)

	assert.Equal(t, serial.Trace, concurrent.Trace)
	assert.Equal(t, serial.Best.Arrangement(), concurrent.Best.Arrangement())
}

func TestElitismKeepsBestFitnessMonotonic(t *testing.T) {
	m := symmetricMatrix(t, 64, 42)

	for _, selection := range SelectionKinds() {
		for _, crossover := range CrossoverKinds() {
			for _, mutation := range MutationKinds() {
				name := fmt.Sprintf("%s/%s/%s", selection, crossover, mutation)
				t.Run(name, func(t *testing.T) {
					p := DefaultParameters()
					p.PopulationSize = 20
					p.MaxGenerations = 8
					p.Selection = selection
					p.Crossover = crossover
					p.Mutation = mutation
					p.MutationRate = 0.5

					// 轮盘赌在最大化时需要正的适应度，让大部分个体为正
					matrix := m
					if selection == SelectionRoulette {
						matrix = positiveMatrix(t, 64)
					}

					res, err := Evolve(context.Background(), seating.DefaultLayout, matrix, p, 99)
					require.NoError(t, err)
					require.Len(t, res.Trace, p.MaxGenerations)
					for g := 1; g < len(res.Trace); g++ {
						assert.GreaterOrEqual(t, res.Trace[g], res.Trace[g-1], "generation %d", g+1)
					}
					assert.Equal(t, res.Trace[len(res.Trace)-1], res.Best.Fitness())
				})
			}
		}
	}
}

func positiveMatrix(t *testing.T, n int) *seating.Matrix {
	t.Helper()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			if i != j {
				rows[i][j] = float64((i*7+j*13)%10 + 1)
			}
		}
	}
	m, err := seating.NewMatrix(rows)
	require.NoError(t, err)
	return m
}

func TestElitismMinimize(t *testing.T) {
	m := symmetricMatrix(t, 64, 43)
	p := DefaultParameters()
	p.PopulationSize = 20
	p.MaxGenerations = 10
	p.Direction = Minimize

	res, err := Evolve(context.Background(), seating.DefaultLayout, m, p, 5)
	require.NoError(t, err)
	for g := 1; g < len(res.Trace); g++ {
		assert.LessOrEqual(t, res.Trace[g], res.Trace[g-1])
	}
}

func TestOddPopulationWithElites(t *testing.T) {
	m := symmetricMatrix(t, 8, 44)
	p := toyParameters()
	p.PopulationSize = 7
	p.EliteCount = 2
	p.MaxGenerations = 3

	o, err := New(p, toyLayout, m)
	require.NoError(t, err)
	res, err := o.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, res.Trace, 3)
}

func TestNewRejectsUnknownOperator(t *testing.T) {
	m := symmetricMatrix(t, 8, 45)

	p := toyParameters()
	p.Selection = "lottery"
	_, err := New(p, toyLayout, m)
	assert.ErrorIs(t, err, ErrUnknownOperator)

	p = toyParameters()
	p.Crossover = "pmx"
	_, err = New(p, toyLayout, m)
	assert.ErrorIs(t, err, ErrUnknownOperator)

	p = toyParameters()
	p.Mutation = "scramble"
	_, err = New(p, toyLayout, m)
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestNewRejectsInvalidSetup(t *testing.T) {
	m := symmetricMatrix(t, 8, 46)

	tests := []struct {
		name   string
		modify func(p *Parameters)
	}{
		{"population too small", func(p *Parameters) { p.PopulationSize = 1 }},
		{"no generations", func(p *Parameters) { p.MaxGenerations = 0 }},
		{"elites fill population", func(p *Parameters) { p.EliteCount = p.PopulationSize }},
		{"negative elites", func(p *Parameters) { p.EliteCount = -1 }},
		{"crossover rate above 1", func(p *Parameters) { p.CrossoverRate = 1.5 }},
		{"negative mutation rate", func(p *Parameters) { p.MutationRate = -0.1 }},
		{"empty tournament", func(p *Parameters) { p.TournamentSize = 0 }},
		{"multi parent with two parents", func(p *Parameters) {
			p.Crossover = CrossoverMultiParent
			p.CrossoverParents = 2
		}},
		{"unknown direction", func(p *Parameters) { p.Direction = Direction(5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := toyParameters()
			tt.modify(p)
			_, err := New(p, toyLayout, m)
			assert.Error(t, err)
		})
	}

	_, err := New(toyParameters(), seating.DefaultLayout, m)
	assert.Error(t, err, "矩阵大小与宾客数量不一致")

	_, err = New(toyParameters(), seating.Layout{Guests: 8, Tables: 3}, m)
	assert.Error(t, err)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	m := symmetricMatrix(t, 8, 47)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Evolve(ctx, toyLayout, m, toyParameters(), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunPropagatesSelectionFailure(t *testing.T) {
	// 所有关系分为负，最大化下的轮盘赌没有可用的权重
	rows := make([][]float64, 8)
	for i := range rows {
		rows[i] = make([]float64, 8)
		for j := range rows[i] {
			if i != j {
				rows[i][j] = -1
			}
		}
	}
	m, err := seating.NewMatrix(rows)
	require.NoError(t, err)

	p := toyParameters()
	p.Selection = SelectionRoulette
	_, err = Evolve(context.Background(), toyLayout, m, p, 1)
	assert.ErrorIs(t, err, ErrDegenerateWeights)
}

func TestMultiParentRun(t *testing.T) {
	m := symmetricMatrix(t, 64, 48)
	p := DefaultParameters()
	p.PopulationSize = 12
	p.MaxGenerations = 3
	p.Crossover = CrossoverMultiParent
	p.CrossoverParents = 4

	res, err := Evolve(context.Background(), seating.DefaultLayout, m, p, 3)
	require.NoError(t, err)
	assert.NoError(t, seating.DefaultLayout.Validate(res.Best.Arrangement()))
}

func TestParseKinds(t *testing.T) {
	s, err := ParseSelectionKind("ranking")
	require.NoError(t, err)
	assert.Equal(t, SelectionRanking, s)

	c, err := ParseCrossoverKind("multi_parent")
	require.NoError(t, err)
	assert.Equal(t, CrossoverMultiParent, c)

	mu, err := ParseMutationKind("misfit")
	require.NoError(t, err)
	assert.Equal(t, MutationMisfit, mu)

	_, err = ParseSelectionKind("best")
	assert.ErrorIs(t, err, ErrUnknownOperator)
	_, err = ParseCrossoverKind("")
	assert.ErrorIs(t, err, ErrUnknownOperator)
	_, err = ParseMutationKind("Swap")
	assert.ErrorIs(t, err, ErrUnknownOperator)

	assert.Len(t, SelectionKinds(), 3)
	assert.Len(t, CrossoverKinds(), 5)
	assert.Len(t, MutationKinds(), 4)
}

func TestDefaultParametersAreValid(t *testing.T) {
	assert.NoError(t, DefaultParameters().Validate())
}
