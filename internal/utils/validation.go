package utils

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
)

// ValidateMatrix 检查关系矩阵是方阵、元素有限，并且宾客数能被桌子数整除
func ValidateMatrix(matrix [][]float64, tables int) error {
	n := len(matrix)
	if n < 2 {
		return errors.New("关系矩阵至少需要 2 位宾客")
	}

	for i, row := range matrix {
		if len(row) != n {
			return fmt.Errorf("关系矩阵第 %d 行长度为 %d，应为 %d", i+1, len(row), n)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("关系矩阵第 %d 行第 %d 列不是有限数值", i+1, j+1)
			}
		}
	}

	if tables <= 0 {
		return errors.New("桌子数量必须为正数")
	}
	if n%tables != 0 {
		return fmt.Errorf("宾客数量 %d 不能被桌子数量 %d 整除", n, tables)
	}

	return nil
}

func findDuplicate(names []string) (string, bool) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return name, true
		}
		seen[name] = true
	}
	return "", false
}

// ValidateSweepRequest 在 validator 标签之外的跨字段检查，populationSize 为 0 时使用默认值
func ValidateSweepRequest(req *domain.SweepRequest, defaultTables, defaultPopulation int) error {
	tables := req.Tables
	if tables == 0 {
		tables = defaultTables
	}
	if err := ValidateMatrix(req.Matrix, tables); err != nil {
		return err
	}

	axes := []struct {
		name  string
		names []string
	}{
		{"变异算子", req.Mutations},
		{"交叉算子", req.Crossovers},
		{"选择算子", req.Selections},
	}
	for _, axis := range axes {
		if name, ok := findDuplicate(axis.names); ok {
			return fmt.Errorf("%s %s 重复", axis.name, name)
		}
	}

	population := req.PopulationSize
	if population == 0 {
		population = defaultPopulation
	}
	if slices.ContainsFunc(req.Elitism, func(e int) bool { return e >= population }) {
		return fmt.Errorf("精英数量必须小于种群大小 %d", population)
	}

	return nil
}
