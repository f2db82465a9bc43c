package unionfind

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIndex 索引不在 [0, n) 内
	ErrInvalidIndex = errors.New("索引越界")
	// ErrInvalidConstruction 元素个数必须大于 0
	ErrInvalidConstruction = errors.New("无效的并查集大小")
	// ErrUnknownVariant 没有这个名字的实现
	ErrUnknownVariant = errors.New("未知的并查集实现")
)

// UnionFind 是三种并查集实现共同的契约
// 元素用 [0, n) 的整数标识，n 在构造后不再变化
// 所有实现都不是并发安全的，多个 goroutine 同时使用需要调用方自己加锁
type UnionFind interface {
	// Union 把 p 和 q 所在的集合合并，已经连通时是安全的空操作
	Union(p, q int)
	// Connected 判断 p 和 q 是否在同一个集合
	Connected(p, q int) bool
	// Find 返回 p 所在集合的代表元素
	Find(p int) int
	// Count 返回当前集合(连通分量)的个数
	Count() int
	// Len 返回元素总数 n
	Len() int
}

// Snapshotter 能导出内部标签/父指针数组的副本，用于可视化和测试
type Snapshotter interface {
	Snapshot() []int
}

// Factory 按元素个数构造一个并查集
type Factory func(n int) (UnionFind, error)

// Variant 是一个带名字的实现，方便测试、基准和命令行替换
type Variant struct {
	Name string
	New  Factory
}

const (
	NameQuickFind  = "quickfind"
	NameQuickUnion = "quickunion"
	NameWeighted   = "weighted"
)

// Default 是加权 + 路径减半的实现，其它包不指定实现时用它
var Default Factory = factoryOf(NewWeightedQuickUnion)

// Variants 返回所有实现，按从慢到快的顺序
func Variants() []Variant {
	return []Variant{
		{Name: NameQuickFind, New: factoryOf(NewQuickFind)},
		{Name: NameQuickUnion, New: factoryOf(NewQuickUnion)},
		{Name: NameWeighted, New: factoryOf(NewWeightedQuickUnion)},
	}
}

// factoryOf 把具体的构造函数包装成 Factory
// 出错时返回真正的 nil 接口，而不是包着 nil 指针的接口
func factoryOf[T UnionFind](ctor func(int) (T, error)) Factory {
	return func(n int) (UnionFind, error) {
		uf, err := ctor(n)
		if err != nil {
			return nil, err
		}
		return uf, nil
	}
}

// Lookup 按名字查找实现，空字符串返回加权实现
func Lookup(name string) (Factory, error) {
	if name == "" {
		name = NameWeighted
	}
	names := make([]string, 0, 3)
	for _, v := range Variants() {
		if v.Name == name {
			return v.New, nil
		}
		names = append(names, v.Name)
	}
	return nil, fmt.Errorf("%w: %q (可选: %s)", ErrUnknownVariant, name, strings.Join(names, "/"))
}

// CheckIndex 校验 i 是否在 uf 的元素范围内
// 并查集本身不做越界检查，需要边界保护的调用方先调用这个函数
func CheckIndex(uf UnionFind, i int) error {
	if i < 0 || i >= uf.Len() {
		return fmt.Errorf("%w: %d 不在 [0, %d) 内", ErrInvalidIndex, i, uf.Len())
	}
	return nil
}

func checkSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidConstruction, n)
	}
	return nil
}

// identity 返回 [0, n) 的恒等映射
func identity(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}
