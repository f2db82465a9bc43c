package logutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"DEBUG", DEBUG, false},
		{"info", INFO, false},
		{" Warn ", WARN, false},
		{"ERROR", ERROR, false},
		{"verbose", INFO, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Level 要能当 pflag.Value 用
func TestLevelFlagValue(t *testing.T) {
	l := WARN
	assert.Equal(t, "WARN", l.String())
	assert.Equal(t, "loglevel", l.Type())

	require.NoError(t, l.Set("debug"))
	assert.Equal(t, DEBUG, l)
	assert.Error(t, l.Set("nope"))
	assert.Equal(t, DEBUG, l, "设置失败时保持原值")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWriter(&buf, WARN)
	defer InitLoggerWriter(&bytes.Buffer{}, INFO)

	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "warn 3")
	assert.Contains(t, out, "WARN")
	// 打印的是调用方的文件，而不是 logutil.go
	assert.Contains(t, out, "logutil_test.go")

	SetLogLevel(DEBUG)
	Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

type sample struct {
	Name  string
	Count int
	inner int
}

func TestFormatArgs(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWriter(&buf, DEBUG)
	defer InitLoggerWriter(&bytes.Buffer{}, INFO)

	Info("slice=%v", []int{1, 2, 3})
	Info("struct=%v", sample{Name: "grid", Count: 9, inner: 1})

	out := buf.String()
	assert.Contains(t, out, "slice=[1,2,3]")
	assert.Contains(t, out, `Name: "grid"`)
	assert.Contains(t, out, "Count: 9")
	assert.NotContains(t, out, "inner")
}

func TestInitLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "percolate.log")
	require.NoError(t, InitLogger(path, INFO))
	Info("written to %s", "file")
	require.NoError(t, CloseLogger())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "written to file"))

	InitLoggerWriter(&bytes.Buffer{}, INFO)
}
