package diffutil

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// 行的比较结果标记
const (
	MarkSame    = "|"
	MarkChanged = "~"
	MarkAdded   = "+"
	MarkRemoved = "-"
)

// DiffLine 是并排对比中的一行
type DiffLine struct {
	Left  string
	Right string
	Mark  string
}

// splitLines 拆行，去掉末尾换行带来的空行
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// CompareLines 按行比较两段多行文本
// 紧挨着的 删除+插入 配对成修改行，这样网格里改动的行能左右对齐
func CompareLines(before, after string) []DiffLine {
	dmp := diffmatchpatch.New()
	text1, text2, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(text1, text2, false), lineArray)

	var result []DiffLine
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		if d.Type == diffmatchpatch.DiffDelete &&
			i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
			dels := splitLines(d.Text)
			ins := splitLines(diffs[i+1].Text)
			for j := range max(len(dels), len(ins)) {
				line := DiffLine{Mark: MarkChanged}
				if j < len(dels) {
					line.Left = dels[j]
				} else {
					line.Mark = MarkAdded
				}
				if j < len(ins) {
					line.Right = ins[j]
				} else {
					line.Mark = MarkRemoved
				}
				result = append(result, line)
			}
			i++
			continue
		}

		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				result = append(result, DiffLine{Left: line, Right: line, Mark: MarkSame})
			case diffmatchpatch.DiffDelete:
				result = append(result, DiffLine{Left: line, Mark: MarkRemoved})
			case diffmatchpatch.DiffInsert:
				result = append(result, DiffLine{Right: line, Mark: MarkAdded})
			}
		}
	}
	return result
}

// FormatSideBySide 把比较结果排成左右两栏
// 按显示宽度对齐：fmt 的宽度按字符数算，宽字符需要补上差值
func FormatSideBySide(diff []DiffLine, leftTitle, rightTitle string) string {
	cond := runewidth.NewCondition()
	// 模糊宽度字符按 1 计算
	cond.EastAsianWidth = false

	width := cond.StringWidth(leftTitle)
	for _, d := range diff {
		width = max(width, cond.StringWidth(d.Left))
	}

	pad := func(s string) string {
		return s + strings.Repeat(" ", width-cond.StringWidth(s))
	}

	var out []string
	header := fmt.Sprintf("%s  %s  %s", pad(leftTitle), " ", rightTitle)
	out = append(out, header)
	out = append(out, strings.Repeat("-", cond.StringWidth(header)))
	for _, d := range diff {
		out = append(out, fmt.Sprintf("%s  %s  %s", pad(d.Left), d.Mark, d.Right))
	}
	return strings.Join(out, "\n")
}

// Changed 统计不是 MarkSame 的行数
func Changed(diff []DiffLine) int {
	n := 0
	for _, d := range diff {
		if d.Mark != MarkSame {
			n++
		}
	}
	return n
}
