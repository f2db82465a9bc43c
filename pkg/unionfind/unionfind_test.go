package unionfind_test

import (
	"fmt"
	"math/bits"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynconn/internal/testutils"
	"dynconn/pkg/forestviz"
	"dynconn/pkg/unionfind"
)

// 三种实现都跑一遍同样的用例
func TestUnionFind(t *testing.T) {
	for _, v := range unionfind.Variants() {
		t.Run(v.Name, func(t *testing.T) {
			uf := testutils.MustNew(t, v.New, 10)

			uf.Union(4, 3)
			uf.Union(3, 8)
			uf.Union(6, 5)
			uf.Union(9, 4)
			uf.Union(2, 1)

			testCases := []struct {
				p, q     int
				expected bool
			}{
				{0, 0, true},
				{4, 3, true},
				{3, 4, true},
				{8, 9, true},
				{5, 6, true},
				{0, 7, false},
				{3, 1, false},
				{6, 9, false},
			}
			for _, tc := range testCases {
				assert.Equal(t, tc.expected, uf.Connected(tc.p, tc.q),
					"Connected(%d, %d)", tc.p, tc.q)
			}
			// 10 个元素做了 5 次有效合并
			assert.Equal(t, 5, uf.Count())
			assert.Equal(t, 10, uf.Len())
		})
	}
}

func TestNewRejectsEmptyUniverse(t *testing.T) {
	for _, v := range unionfind.Variants() {
		for _, n := range []int{0, -1} {
			t.Run(fmt.Sprintf("%s/n=%d", v.Name, n), func(t *testing.T) {
				uf, err := v.New(n)
				require.ErrorIs(t, err, unionfind.ErrInvalidConstruction)
				assert.Nil(t, uf)
			})
		}
	}
}

func TestReflexiveAfterConstruction(t *testing.T) {
	for _, v := range unionfind.Variants() {
		t.Run(v.Name, func(t *testing.T) {
			const n = 64
			uf := testutils.MustNew(t, v.New, n)
			for i := range n {
				assert.True(t, uf.Connected(i, i), "Connected(%d, %d)", i, i)
				assert.Equal(t, i, uf.Find(i))
			}
			assert.Equal(t, n, uf.Count())
		})
	}
}

// 随机合并后 Connected 仍然满足等价关系：自反、对称、传递
func TestEquivalenceLaws(t *testing.T) {
	const n = 40
	pairs := testutils.RandomPairs(n, 25, 7)

	for _, v := range unionfind.Variants() {
		t.Run(v.Name, func(t *testing.T) {
			uf := testutils.MustNew(t, v.New, n)
			testutils.ApplyPairs(uf, pairs)

			for a := range n {
				require.True(t, uf.Connected(a, a))
				for b := range n {
					ab := uf.Connected(a, b)
					require.Equal(t, ab, uf.Connected(b, a), "对称性 (%d, %d)", a, b)
					if !ab {
						continue
					}
					for c := range n {
						if uf.Connected(b, c) {
							require.True(t, uf.Connected(a, c), "传递性 (%d, %d, %d)", a, b, c)
						}
					}
				}
			}
		})
	}
}

// Union 调两次和调一次得到的划分一样
func TestUnionIdempotent(t *testing.T) {
	const n = 50
	pairs := testutils.RandomPairs(n, 30, 11)

	for _, v := range unionfind.Variants() {
		t.Run(v.Name, func(t *testing.T) {
			once := testutils.MustNew(t, v.New, n)
			twice := testutils.MustNew(t, v.New, n)
			for _, pr := range pairs {
				once.Union(pr.P, pr.Q)
				twice.Union(pr.P, pr.Q)
				twice.Union(pr.P, pr.Q)
			}
			if diff := cmp.Diff(testutils.Partition(once), testutils.Partition(twice)); diff != "" {
				t.Errorf("划分不一致 (-once +twice):\n%s", diff)
			}
			assert.Equal(t, once.Count(), twice.Count())
		})
	}
}

// 不同实现在同一组合并序列下得到相同的划分
func TestVariantsAgree(t *testing.T) {
	const n = 200
	pairs := testutils.RandomPairs(n, 150, 42)

	var want []int
	for _, v := range unionfind.Variants() {
		uf := testutils.MustNew(t, v.New, n)
		testutils.ApplyPairs(uf, pairs)
		got := testutils.Partition(uf)
		if want == nil {
			want = got
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s 的划分与 quickfind 不同 (-want +got):\n%s", v.Name, diff)
		}
	}
}

// 路径减半只是优化：每一步之后加权实现的 Connected 都要和不压缩的 QuickUnion 一致
func TestPathCompressionMatchesQuickUnion(t *testing.T) {
	const n = 120
	ref, err := unionfind.NewQuickUnion(n)
	require.NoError(t, err)
	wqu, err := unionfind.NewWeightedQuickUnion(n)
	require.NoError(t, err)

	probes := testutils.RandomPairs(n, 300, 5)
	for i, pr := range testutils.RandomPairs(n, 100, 3) {
		ref.Union(pr.P, pr.Q)
		wqu.Union(pr.P, pr.Q)
		// 穿插查询，让路径压缩真正发生
		for _, probe := range probes[i%10*30 : i%10*30+30] {
			require.Equal(t, ref.Connected(probe.P, probe.Q), wqu.Connected(probe.P, probe.Q),
				"第 %d 次合并后 Connected(%d, %d)", i, probe.P, probe.Q)
		}
	}
	for p := range n {
		for q := range n {
			require.Equal(t, ref.Connected(p, q), wqu.Connected(p, q))
		}
	}
}

func floorLog2(n int) int {
	return bits.Len(uint(n)) - 1
}

func TestWeightedHeightBound(t *testing.T) {
	t.Run("random", func(t *testing.T) {
		for _, n := range []int{1, 2, 7, 64, 500, 1024} {
			uf, err := unionfind.NewWeightedQuickUnion(n)
			require.NoError(t, err)
			for _, pr := range testutils.RandomPairs(n, 4*n, uint64(n)) {
				uf.Union(pr.P, pr.Q)
				h, err := forestviz.MaxHeight(uf.Snapshot())
				require.NoError(t, err)
				require.LessOrEqual(t, h, floorLog2(n)+1, "n=%d", n)
			}
		}
	})

	// 每轮把相同大小的树两两合并，这是按大小合并的最坏情况
	// 大小相同时 p 挂到 q 下，所以 [i, i+step) 这一段的根总是 i+step-1
	// 直接对根做 Union，避免路径减半把树压矮
	t.Run("doubling", func(t *testing.T) {
		const n = 256
		uf, err := unionfind.NewWeightedQuickUnion(n)
		require.NoError(t, err)
		for step := 1; step < n; step *= 2 {
			for i := 0; i+step < n; i += 2 * step {
				uf.Union(i+step-1, i+2*step-1)
			}
		}
		h, err := forestviz.MaxHeight(uf.Snapshot())
		require.NoError(t, err)
		assert.Equal(t, floorLog2(n)+1, h)
		assert.Equal(t, 1, uf.Count())
		assert.Equal(t, n, uf.Size(0))
	})
}

// 不加权的 QuickUnion 会退化成链，这是它已知的弱点
func TestQuickUnionDegeneratesToChain(t *testing.T) {
	const n = 32
	uf, err := unionfind.NewQuickUnion(n)
	require.NoError(t, err)
	for i := 0; i+1 < n; i++ {
		uf.Union(i, i+1)
	}
	h, err := forestviz.MaxHeight(uf.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, n, h)
}

func TestWeightedSize(t *testing.T) {
	uf, err := unionfind.NewWeightedQuickUnion(10)
	require.NoError(t, err)

	uf.Union(1, 2)
	uf.Union(2, 3)
	assert.Equal(t, 3, uf.Size(1))
	assert.Equal(t, 3, uf.Size(3))
	assert.Equal(t, 1, uf.Size(4))

	// 大小相同时 p 的根挂到 q 的根下面
	uf.Union(4, 5)
	assert.Equal(t, 5, uf.Find(4))

	// 小树挂到大树下面，与参数顺序无关
	uf.Union(1, 4)
	assert.Equal(t, uf.Find(1), uf.Find(5))
	assert.Equal(t, 5, uf.Size(5))
	assert.Equal(t, 6, uf.Count())
}

func TestQuickFindRelabels(t *testing.T) {
	uf, err := unionfind.NewQuickFind(5)
	require.NoError(t, err)
	uf.Union(0, 1)
	uf.Union(1, 4)
	assert.Equal(t, []int{4, 4, 2, 3, 4}, uf.Snapshot())

	// 已连通时完整扫描一遍但不改任何标签
	uf.Union(0, 4)
	assert.Equal(t, []int{4, 4, 2, 3, 4}, uf.Snapshot())
	assert.Equal(t, 3, uf.Count())
}

func TestCheckIndex(t *testing.T) {
	uf, err := unionfind.NewWeightedQuickUnion(4)
	require.NoError(t, err)

	for _, i := range []int{0, 3} {
		assert.NoError(t, unionfind.CheckIndex(uf, i))
	}
	for _, i := range []int{-1, 4, 100} {
		assert.ErrorIs(t, unionfind.CheckIndex(uf, i), unionfind.ErrInvalidIndex)
	}
}

func TestLookup(t *testing.T) {
	for _, v := range unionfind.Variants() {
		f, err := unionfind.Lookup(v.Name)
		require.NoError(t, err)
		uf := testutils.MustNew(t, f, 3)
		assert.Equal(t, 3, uf.Len())
	}

	f, err := unionfind.Lookup("")
	require.NoError(t, err)
	uf := testutils.MustNew(t, f, 2)
	assert.IsType(t, &unionfind.WeightedQuickUnion{}, uf)

	_, err = unionfind.Lookup("bogus")
	assert.ErrorIs(t, err, unionfind.ErrUnknownVariant)
}

func BenchmarkUnionConnected(b *testing.B) {
	const n = 4096
	pairs := testutils.RandomPairs(n, n, 1)
	for _, v := range unionfind.Variants() {
		b.Run(v.Name, func(b *testing.B) {
			for b.Loop() {
				uf := testutils.MustNew(b, v.New, n)
				for _, pr := range pairs {
					if !uf.Connected(pr.P, pr.Q) {
						uf.Union(pr.P, pr.Q)
					}
				}
			}
		})
	}
}
