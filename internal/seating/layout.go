package seating

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidArrangement 表示座位安排不合法（长度错误、桌号越界或桌子人数不均衡）
var ErrInvalidArrangement = errors.New("座位安排不合法")

// Layout 描述问题规模：Guests 位宾客平均分配到 Tables 张桌子
type Layout struct {
	Guests int
	Tables int
}

// DefaultLayout 为 64 位宾客、8 张桌子
var DefaultLayout = Layout{Guests: 64, Tables: 8}

func (l Layout) Check() error {
	if l.Guests <= 0 || l.Tables <= 0 {
		return fmt.Errorf("宾客数量和桌子数量必须为正数 (guests=%d, tables=%d)", l.Guests, l.Tables)
	}
	if l.Guests%l.Tables != 0 {
		return fmt.Errorf("宾客数量 %d 不能被桌子数量 %d 整除", l.Guests, l.Tables)
	}
	return nil
}

// GuestsPerTable 每张桌子的座位数
func (l Layout) GuestsPerTable() int {
	return l.Guests / l.Tables
}

// Validate 检查 a 是否是 l 下的合法座位安排
func (l Layout) Validate(a Arrangement) error {
	if len(a) != l.Guests {
		return fmt.Errorf("%w: 需要 %d 位宾客，实际为 %d", ErrInvalidArrangement, l.Guests, len(a))
	}

	counts := make([]int, l.Tables)
	for guest, table := range a {
		if table < 0 || table >= l.Tables {
			return fmt.Errorf("%w: 宾客 %d 的桌号 %d 不在 [0, %d) 范围内", ErrInvalidArrangement, guest, table, l.Tables)
		}
		counts[table]++
	}

	perTable := l.GuestsPerTable()
	for table, cnt := range counts {
		if cnt != perTable {
			return fmt.Errorf("%w: 桌子 %d 有 %d 位宾客，应为 %d 位", ErrInvalidArrangement, table, cnt, perTable)
		}
	}

	return nil
}

// RandomArrangement 生成一个均匀随机的合法座位安排
func (l Layout) RandomArrangement(rng *rand.Rand) Arrangement {
	perTable := l.GuestsPerTable()
	a := make(Arrangement, 0, l.Guests)
	for table := 0; table < l.Tables; table++ {
		for i := 0; i < perTable; i++ {
			a = append(a, table)
		}
	}

	// Fisher-Yates
	rng.Shuffle(len(a), func(i, j int) {
		a[i], a[j] = a[j], a[i]
	})

	return a
}
