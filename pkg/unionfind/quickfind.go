package unionfind

import "slices"

// QuickFind 用一个平铺的标签数组表示分量
// label[p] == label[q] 当且仅当 p 和 q 连通
// Connected 是 O(1)，Union 需要扫描整个数组，是 O(n)
type QuickFind struct {
	ids   []int
	count int
}

// NewQuickFind 初始化，每个元素的标签就是它自己
func NewQuickFind(n int) (*QuickFind, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	return &QuickFind{ids: identity(n), count: n}, nil
}

func (uf *QuickFind) Connected(p, q int) bool {
	return uf.ids[p] == uf.ids[q]
}

// Find 返回 p 的标签
func (uf *QuickFind) Find(p int) int {
	return uf.ids[p]
}

// Union 把所有标签等于 label[p] 的元素改写为 label[q]
// 已经连通时仍然会完整扫描一遍，只是什么都不改
func (uf *QuickFind) Union(p, q int) {
	pID := uf.ids[p]
	qID := uf.ids[q]

	for i := range uf.ids {
		if uf.ids[i] == pID {
			uf.ids[i] = qID
		}
	}
	if pID != qID {
		uf.count--
	}
}

func (uf *QuickFind) Count() int { return uf.count }

func (uf *QuickFind) Len() int { return len(uf.ids) }

// Snapshot 返回标签数组的副本
func (uf *QuickFind) Snapshot() []int {
	return slices.Clone(uf.ids)
}
