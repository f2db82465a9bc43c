package unionfind

import "slices"

// WeightedQuickUnion 是按大小合并 + 路径减半的并查集
// 森林与 QuickUnion 相同，另外维护每棵树的大小
// size 只在根节点上有意义，非根位置的值不会被更新也不应该被读取
// 按大小合并保证树高不超过 log2(n)+1
type WeightedQuickUnion struct {
	parent []int
	size   []int
	count  int
}

// NewWeightedQuickUnion 初始化，每个元素是大小为 1 的单元素集合
func NewWeightedQuickUnion(n int) (*WeightedQuickUnion, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	size := make([]int, n)
	for i := range size {
		size[i] = 1
	}
	return &WeightedQuickUnion{parent: identity(n), size: size, count: n}, nil
}

// Find 查找根节点，同时做路径减半：
// 每访问一个节点，就把它的父指针改成祖父节点
// 这只会缩短以后的查找路径，不改变任何连通性结果
func (uf *WeightedQuickUnion) Find(i int) int {
	for i != uf.parent[i] {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *WeightedQuickUnion) Connected(p, q int) bool {
	return uf.Find(p) == uf.Find(q)
}

// Union 把较小的树挂到较大的树下面
// 大小相同时 p 的根挂到 q 的根下面
func (uf *WeightedQuickUnion) Union(p, q int) {
	pRoot := uf.Find(p)
	qRoot := uf.Find(q)
	if pRoot == qRoot {
		return // 已经在同一个集合
	}

	if uf.size[pRoot] > uf.size[qRoot] {
		pRoot, qRoot = qRoot, pRoot
	}
	uf.parent[pRoot] = qRoot
	uf.size[qRoot] += uf.size[pRoot]
	uf.count--
}

// Size 返回 p 所在集合的大小
func (uf *WeightedQuickUnion) Size(p int) int {
	return uf.size[uf.Find(p)]
}

func (uf *WeightedQuickUnion) Count() int { return uf.count }

func (uf *WeightedQuickUnion) Len() int { return len(uf.parent) }

// Snapshot 返回父指针数组的副本
func (uf *WeightedQuickUnion) Snapshot() []int {
	return slices.Clone(uf.parent)
}
