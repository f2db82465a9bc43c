package forestviz

import (
	"fmt"
	"strings"
)

const (
	StyleASCII   = 0
	StyleUnicode = 1
)

// children 按元素编号升序收集每个节点的子节点，返回值的 roots 也是升序的
func children(parents []int) (roots []int, kids [][]int) {
	kids = make([][]int, len(parents))
	for i, p := range parents {
		if p == i {
			roots = append(roots, i)
			continue
		}
		kids[p] = append(kids[p], i)
	}
	return roots, kids
}

// ToText 把父指针数组打印成目录树的样子，每棵树一段，根在最上面
//
//	'-- 2 (size 3)
//	    .-- 0
//	    '-- 1
func ToText(parents []int, style int) (string, error) {
	if _, err := Heights(parents); err != nil {
		return "", err
	}
	if len(parents) == 0 {
		return "forest is empty\n", nil
	}

	connector, branch, space := "'-- ", ".-- ", "|   "
	if style == StyleUnicode {
		connector, branch, space = "└── ", "├── ", "│   "
	}

	roots, kids := children(parents)

	// 子树大小，用于根节点的标签
	var size func(node int) int
	size = func(node int) int {
		s := 1
		for _, c := range kids[node] {
			s += size(c)
		}
		return s
	}

	var b strings.Builder
	var dfs func(node int, prefix string, isLast bool)
	dfs = func(node int, prefix string, isLast bool) {
		if isLast {
			b.WriteString(prefix + connector)
		} else {
			b.WriteString(prefix + branch)
		}
		b.WriteString(fmt.Sprint(node))
		b.WriteByte('\n')

		childPrefix := prefix + space
		if isLast {
			childPrefix = prefix + "    "
		}
		for i, c := range kids[node] {
			dfs(c, childPrefix, i == len(kids[node])-1)
		}
	}

	for _, r := range roots {
		fmt.Fprintf(&b, "%s%d (size %d)\n", connector, r, size(r))
		for i, c := range kids[r] {
			dfs(c, "    ", i == len(kids[r])-1)
		}
	}
	return b.String(), nil
}
