// Package forestviz 把并查集的父指针数组导出成 Graphviz DOT，并提供树高统计
package forestviz

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"dynconn/pkg/unionfind"
)

// ErrMalformedForest 父指针数组里有环(除了根的自环)
var ErrMalformedForest = errors.New("父指针数组不是森林")

// validate 检查每个父指针都在范围内
func validate(parents []int) error {
	for i, p := range parents {
		if p < 0 || p >= len(parents) {
			return fmt.Errorf("%w: parent[%d] = %d 不在 [0, %d) 内",
				unionfind.ErrInvalidIndex, i, p, len(parents))
		}
	}
	return nil
}

// ToDot 把父指针数组渲染成有向图，边的方向是 子节点 -> 父节点
// 根节点(parent[i] == i)用双圈标出，不画自环
func ToDot(name string, parents []int) (string, error) {
	g, err := Build(name, parents)
	if err != nil {
		return "", err
	}
	return g.String(), nil
}

// Build 构造 gographviz 图对象，调用方可以继续加属性
func Build(name string, parents []int) (*gographviz.Graph, error) {
	if err := validate(parents); err != nil {
		return nil, err
	}
	if _, err := Heights(parents); err != nil {
		return nil, err
	}

	g := gographviz.NewGraph()
	if err := g.SetName(name); err != nil {
		return nil, fmt.Errorf("设置图名 %q 失败: %w", name, err)
	}
	if err := g.SetDir(true); err != nil {
		return nil, err
	}

	for i, p := range parents {
		attrs := map[string]string{}
		if p == i {
			attrs["shape"] = "doublecircle"
		}
		if err := g.AddNode(name, strconv.Itoa(i), attrs); err != nil {
			return nil, fmt.Errorf("添加节点 %d 失败: %w", i, err)
		}
	}
	for i, p := range parents {
		if p == i {
			continue
		}
		if err := g.AddEdge(strconv.Itoa(i), strconv.Itoa(p), true, nil); err != nil {
			return nil, fmt.Errorf("添加边 %d -> %d 失败: %w", i, p, err)
		}
	}
	return g, nil
}

// Heights 返回每个元素到根路径上的节点数(根自己的高度是 1)
// 数组里出现环时返回 ErrMalformedForest
func Heights(parents []int) ([]int, error) {
	if err := validate(parents); err != nil {
		return nil, err
	}

	n := len(parents)
	heights := make([]int, n)
	for i := range parents {
		h := 1
		for j := i; parents[j] != j; j = parents[j] {
			h++
			if h > n {
				return nil, fmt.Errorf("%w: 从 %d 出发的路径没有到达根", ErrMalformedForest, i)
			}
		}
		heights[i] = h
	}
	return heights, nil
}

// MaxHeight 返回森林中最高的树的高度，空数组返回 0
func MaxHeight(parents []int) (int, error) {
	heights, err := Heights(parents)
	if err != nil {
		return 0, err
	}
	best := 0
	for _, h := range heights {
		best = max(best, h)
	}
	return best, nil
}
