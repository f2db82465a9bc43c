package unionfind

import "slices"

// QuickUnion 用父指针森林表示分量，不做任何平衡
// 树可能退化成链，这时 Find 是 O(n)
type QuickUnion struct {
	parent []int
	count  int
}

// NewQuickUnion 初始化，每个元素都是自己的根
func NewQuickUnion(n int) (*QuickUnion, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	return &QuickUnion{parent: identity(n), count: n}, nil
}

// Find 沿父指针一直走到自反节点(parent[i] == i)，不做路径压缩
func (uf *QuickUnion) Find(i int) int {
	for i != uf.parent[i] {
		i = uf.parent[i]
	}
	return i
}

func (uf *QuickUnion) Connected(p, q int) bool {
	return uf.Find(p) == uf.Find(q)
}

// Union 把 p 的根挂到 q 的根下面
// 不判断是否已经连通，已连通时只是把根写回自己
func (uf *QuickUnion) Union(p, q int) {
	pRoot := uf.Find(p)
	qRoot := uf.Find(q)
	if pRoot != qRoot {
		uf.count--
	}
	uf.parent[pRoot] = qRoot
}

func (uf *QuickUnion) Count() int { return uf.count }

func (uf *QuickUnion) Len() int { return len(uf.parent) }

// Snapshot 返回父指针数组的副本
func (uf *QuickUnion) Snapshot() []int {
	return slices.Clone(uf.parent)
}
