package testutils

import (
	"math/rand/v2"
	"testing"

	"dynconn/pkg/unionfind"
)

// Pair 是一次 Union 调用的两个参数
type Pair struct {
	P, Q int
}

// RandomPairs 生成 k 个 [0, n) 内的随机元素对，同一个 seed 结果固定
func RandomPairs(n, k int, seed uint64) []Pair {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pairs := make([]Pair, k)
	for i := range pairs {
		pairs[i] = Pair{P: rng.IntN(n), Q: rng.IntN(n)}
	}
	return pairs
}

// ApplyPairs 把 pairs 依次 Union 到 uf 上
func ApplyPairs(uf unionfind.UnionFind, pairs []Pair) {
	for _, pr := range pairs {
		uf.Union(pr.P, pr.Q)
	}
}

// MustNew 用 factory 构造并查集，失败直接终止测试
func MustNew(t testing.TB, factory unionfind.Factory, n int) unionfind.UnionFind {
	t.Helper()
	uf, err := factory(n)
	if err != nil {
		t.Fatalf("构造大小为 %d 的并查集失败: %v", n, err)
	}
	return uf
}

// Partition 用 Find 把每个元素映射到一个从 0 开始编号的分量号
// 编号按首次出现的顺序分配，所以不同实现得到的partition可以直接比较
func Partition(uf unionfind.UnionFind) []int {
	ids := make(map[int]int)
	out := make([]int, uf.Len())
	for i := range out {
		root := uf.Find(i)
		id, ok := ids[root]
		if !ok {
			id = len(ids)
			ids[root] = id
		}
		out[i] = id
	}
	return out
}
