package optimizer

import (
	"math/rand"
	"slices"
	"sort"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

// 交换变异：随机交换两位不同宾客的桌号
func SwapMutation(rng *rand.Rand, _ seating.Layout, _ *seating.Matrix, a seating.Arrangement) seating.Arrangement {
	mutated := a.Clone()
	if len(mutated) < 2 {
		return mutated
	}

	i := rng.Intn(len(mutated))
	j := rng.Intn(len(mutated) - 1)
	if j >= i {
		j++
	}
	mutated[i], mutated[j] = mutated[j], mutated[i]

	return mutated
}

// 倒位变异：翻转一个长度在 [2, 每桌人数] 之间的连续片段
// 片段长度上限为一桌的人数，以限制一次变异的破坏程度
func InversionMutation(rng *rand.Rand, layout seating.Layout, _ *seating.Matrix, a seating.Arrangement) seating.Arrangement {
	mutated := a.Clone()

	maxSize := min(layout.GuestsPerTable(), len(mutated))
	if maxSize < 2 {
		return mutated
	}

	size := 2 + rng.Intn(maxSize-1)
	start := rng.Intn(len(mutated) - size + 1)
	slices.Reverse(mutated[start : start+size])

	return mutated
}

/**
 * 启发式变异
 * 随机选出一位宾客，尝试把他和其他桌的每一位宾客交换，
 * 计算交换前后两人幸福度之和的增量，执行增量最大且为正的那次交换
 * 不存在能提高幸福度的交换时返回原安排的副本
 */
func HeuristicMutation(rng *rand.Rand, layout seating.Layout, m *seating.Matrix, a seating.Arrangement) seating.Arrangement {
	mutated := a.Clone()
	if len(mutated) < 2 {
		return mutated
	}

	tables := mutated.Tables(layout.Tables)

	guest1 := rng.Intn(len(mutated))
	table1 := mutated[guest1]
	current1 := seating.Happiness(m, guest1, tables[table1])

	bestGain := 0.0
	bestGuest2 := -1

	for guest2, table2 := range mutated {
		if table2 == table1 {
			continue
		}

		current2 := seating.Happiness(m, guest2, tables[table2])

		// 交换后 guest1 坐到 table2（guest2 已离开），guest2 坐到 table1（guest1 已离开）
		new1 := seating.Happiness(m, guest1, tables[table2]) - m.Score(guest1, guest2)
		new2 := seating.Happiness(m, guest2, tables[table1]) - m.Score(guest2, guest1)

		gain := (new1 + new2) - (current1 + current2)
		if gain > bestGain {
			bestGain = gain
			bestGuest2 = guest2
		}
	}

	if bestGuest2 >= 0 {
		mutated[guest1], mutated[bestGuest2] = mutated[bestGuest2], mutated[guest1]
	}

	return mutated
}

type misfit struct {
	guest     int
	table     int
	happiness float64
}

/**
 * 不合群者变异
 * 每张桌子找出桌内幸福度为负且最低的宾客，
 * 在这些宾客中取幸福度最低的两位，如果他们不在同一桌就交换
 */
func MisfitMutation(_ *rand.Rand, layout seating.Layout, m *seating.Matrix, a seating.Arrangement) seating.Arrangement {
	mutated := a.Clone()

	misfits := make([]misfit, 0, layout.Tables)
	for table, guests := range mutated.Tables(layout.Tables) {
		minHappiness := 0.0
		leastHappy := -1
		for _, guest := range guests {
			h := seating.Happiness(m, guest, guests)
			if h < minHappiness {
				minHappiness = h
				leastHappy = guest
			}
		}
		if leastHappy >= 0 {
			misfits = append(misfits, misfit{guest: leastHappy, table: table, happiness: minHappiness})
		}
	}

	if len(misfits) < 2 {
		return mutated
	}

	sort.SliceStable(misfits, func(i, j int) bool {
		return misfits[i].happiness < misfits[j].happiness
	})

	first, second := misfits[0], misfits[1]
	if first.table != second.table {
		mutated[first.guest], mutated[second.guest] = mutated[second.guest], mutated[first.guest]
	}

	return mutated
}
