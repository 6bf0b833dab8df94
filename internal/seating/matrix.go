package seating

import "fmt"

// Matrix 宾客之间两两的关系分，创建后只读，所有个体共享
type Matrix struct {
	n      int
	scores []float64
}

// NewMatrix 由方阵 rows 创建关系矩阵，rows 会被复制
func NewMatrix(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("关系矩阵不能为空")
	}

	scores := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("关系矩阵第 %d 行长度为 %d，应为 %d", i, len(row), n)
		}
		scores = append(scores, row...)
	}

	return &Matrix{n: n, scores: scores}, nil
}

func (m *Matrix) Size() int {
	return m.n
}

func (m *Matrix) Score(a, b int) float64 {
	return m.scores[a*m.n+b]
}

// Rows 返回矩阵内容的副本
func (m *Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := range rows {
		rows[i] = make([]float64, m.n)
		copy(rows[i], m.scores[i*m.n:(i+1)*m.n])
	}
	return rows
}
