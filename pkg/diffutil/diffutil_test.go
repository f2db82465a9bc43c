package diffutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareLinesGrid(t *testing.T) {
	before := "~##\n###\n###\n"
	after := "~##\n~##\n###\n"

	diff := CompareLines(before, after)
	require.Len(t, diff, 3)
	assert.Equal(t, DiffLine{Left: "~##", Right: "~##", Mark: MarkSame}, diff[0])
	assert.Equal(t, DiffLine{Left: "###", Right: "~##", Mark: MarkChanged}, diff[1])
	assert.Equal(t, DiffLine{Left: "###", Right: "###", Mark: MarkSame}, diff[2])
	assert.Equal(t, 1, Changed(diff))
}

func TestCompareLinesUnevenBlocks(t *testing.T) {
	diff := CompareLines("a\nb\n", "a\nc\nd\n")
	assert.Equal(t, []DiffLine{
		{Left: "a", Right: "a", Mark: MarkSame},
		{Left: "b", Right: "c", Mark: MarkChanged},
		{Left: "", Right: "d", Mark: MarkAdded},
	}, diff)

	diff = CompareLines("a\nb\n", "a\n")
	assert.Equal(t, []DiffLine{
		{Left: "a", Right: "a", Mark: MarkSame},
		{Left: "b", Right: "", Mark: MarkRemoved},
	}, diff)
}

func TestFormatSideBySide(t *testing.T) {
	diff := CompareLines("##\n##\n", "#.\n##\n")
	out := FormatSideBySide(diff, "打开前", "打开后")
	t.Log("\n" + out)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	// "打开前" 显示宽度是 6，下面每一行的标记都要对齐到同一列
	assert.Equal(t, "打开前     打开后", lines[0])
	assert.Equal(t, "##      ~  #.", lines[2])
	assert.Equal(t, "##      |  ##", lines[3])
}
