package seating

// Arrangement 下标为宾客编号，值为该宾客所在的桌号
type Arrangement []int

func (a Arrangement) Clone() Arrangement {
	c := make(Arrangement, len(a))
	copy(c, a)
	return c
}

// Tables 按桌号分组，每桌内宾客编号升序
func (a Arrangement) Tables(tables int) [][]int {
	groups := make([][]int, tables)
	for guest, table := range a {
		if table < 0 || table >= tables {
			continue
		}
		groups[table] = append(groups[table], guest)
	}
	return groups
}

// Counts 统计每张桌子上的宾客数量，越界的桌号被忽略
func (a Arrangement) Counts(tables int) []int {
	counts := make([]int, tables)
	for _, table := range a {
		if table >= 0 && table < tables {
			counts[table]++
		}
	}
	return counts
}

// Equal 判断两个座位安排是否逐位相同
func (a Arrangement) Equal(b Arrangement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

/**
 * 计算座位安排的适应度
 * fitness = Σ_table Σ_{a<b, a,b 同桌} matrix[a][b]
 * 每对宾客只计算一次，不包含自己和自己
 */
func Fitness(a Arrangement, m *Matrix, tables int) float64 {
	fitness := 0.0
	for _, guests := range a.Tables(tables) {
		for i := 0; i < len(guests); i++ {
			for j := i + 1; j < len(guests); j++ {
				fitness += m.Score(guests[i], guests[j])
			}
		}
	}
	return fitness
}

// Happiness 宾客 guest 与 others 中除自己以外所有人的关系分之和
func Happiness(m *Matrix, guest int, others []int) float64 {
	h := 0.0
	for _, other := range others {
		if other == guest {
			continue
		}
		h += m.Score(guest, other)
	}
	return h
}
