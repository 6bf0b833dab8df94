package optimizer

import (
	"fmt"
	"math/rand"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

/**
 * 修复交叉产生的不均衡座位安排
 * 人数超出的桌子贡献 "多出" 的座位，人数不足的桌子贡献 "缺少" 的座位，两者数量必须相等
 * 按随机顺序遍历宾客，把多出桌子上的宾客改到缺少的桌子上，直到所有桌子人数均衡
 */
func Repair(rng *rand.Rand, layout seating.Layout, a seating.Arrangement) (seating.Arrangement, error) {
	perTable := layout.GuestsPerTable()
	counts := make([]int, layout.Tables)
	for guest, table := range a {
		if table < 0 || table >= layout.Tables {
			return nil, fmt.Errorf("%w: 宾客 %d 的桌号 %d 不在 [0, %d) 范围内", seating.ErrInvalidArrangement, guest, table, layout.Tables)
		}
		counts[table]++
	}

	excess := 0
	missing := make([]int, 0) // 每个缺少的座位对应一个桌号，按桌号升序
	for table, cnt := range counts {
		if cnt > perTable {
			excess += cnt - perTable
		}
		for i := cnt; i < perTable; i++ {
			missing = append(missing, table)
		}
	}

	if excess != len(missing) {
		return nil, fmt.Errorf("%w: 多出 %d 个座位，缺少 %d 个座位", ErrRepairInconsistency, excess, len(missing))
	}

	repaired := a.Clone()
	if excess == 0 {
		return repaired, nil
	}

	for _, guest := range rng.Perm(len(repaired)) {
		if len(missing) == 0 {
			break
		}
		table := repaired[guest]
		if counts[table] <= perTable {
			continue
		}
		repaired[guest] = missing[0]
		counts[table]--
		counts[missing[0]]++
		missing = missing[1:]
	}

	return repaired, nil
}

func repairPair(rng *rand.Rand, layout seating.Layout, o1, o2 seating.Arrangement) (seating.Arrangement, seating.Arrangement, error) {
	r1, err := Repair(rng, layout, o1)
	if err != nil {
		return nil, nil, err
	}
	r2, err := Repair(rng, layout, o2)
	if err != nil {
		return nil, nil, err
	}
	return r1, r2, nil
}
