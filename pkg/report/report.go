// Package report 把试验统计和回放结果格式化成文本或 JSON
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"dynconn/pkg/percolation"
)

// Format 是输出格式，实现了 pflag.Value
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func (f *Format) String() string { return string(*f) }

func (f *Format) Set(val string) error {
	switch Format(val) {
	case FormatText, FormatJSON:
		*f = Format(val)
		return nil
	default:
		return fmt.Errorf("无效的输出格式: %s (可选: text/json)", val)
	}
}

func (f *Format) Type() string { return "format" }

var _ pflag.Value = (*Format)(nil)

// 统计结果里额外输出的分位点
var percentiles = []float64{0.05, 0.25, 0.5, 0.75, 0.95}

// StatsText 输出人读的统计报告
func StatsText(s *percolation.TrialStats) string {
	var sb strings.Builder
	sites := int64(s.Size) * int64(s.Size)
	fmt.Fprintf(&sb, "grid                    = %d x %d (%s sites)\n", s.Size, s.Size, humanize.Comma(sites))
	fmt.Fprintf(&sb, "trials                  = %s\n", humanize.Comma(int64(s.Trials)))
	fmt.Fprintf(&sb, "variant                 = %s\n", s.Variant)
	fmt.Fprintf(&sb, "mean                    = %s\n", humanize.FormatFloat("#.########", s.Mean))
	fmt.Fprintf(&sb, "stddev                  = %s\n", humanize.FormatFloat("#.########", s.StdDev))
	fmt.Fprintf(&sb, "%-24s= [%s, %s]\n",
		fmt.Sprintf("%s confidence", humanize.FormatFloat("#.", s.Confidence*100)+"%"),
		humanize.FormatFloat("#.########", s.ConfidenceLo),
		humanize.FormatFloat("#.########", s.ConfidenceHi))
	fmt.Fprintf(&sb, "min / max               = %s / %s\n",
		humanize.FormatFloat("#.####", s.Min), humanize.FormatFloat("#.####", s.Max))
	for _, q := range percentiles {
		fmt.Fprintf(&sb, "%-24s= %s\n", fmt.Sprintf("p%d", int(q*100+0.5)),
			humanize.FormatFloat("#.####", s.Percentile(q)))
	}
	fmt.Fprintf(&sb, "elapsed                 = %s\n", s.Elapsed.Round(1e6))
	return sb.String()
}

// StatsJSON 输出格式化好的 JSON
func StatsJSON(s *percolation.TrialStats) (string, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"size", s.Size},
		{"trials", s.Trials},
		{"variant", s.Variant},
		{"mean", s.Mean},
		{"stddev", s.StdDev},
		{"confidence.level", s.Confidence},
		{"confidence.lo", s.ConfidenceLo},
		{"confidence.hi", s.ConfidenceHi},
		{"min", s.Min},
		{"max", s.Max},
		{"elapsed_ms", s.Elapsed.Milliseconds()},
	}
	for _, q := range percentiles {
		fields = append(fields, struct {
			path  string
			value any
		}{fmt.Sprintf("percentiles.p%d", int(q*100+0.5)), s.Percentile(q)})
	}

	doc := "{}"
	var err error
	for _, f := range fields {
		if doc, err = sjson.Set(doc, f.path, f.value); err != nil {
			return "", fmt.Errorf("写入字段 %s 失败: %w", f.path, err)
		}
	}
	return string(pretty.Pretty([]byte(doc))), nil
}

// ReplayJSON 把回放结果输出为 JSON，每一步一个对象
func ReplayJSON(res *percolation.ReplayResult) (string, error) {
	doc := "{}"
	var err error
	set := func(path string, value any) {
		if err == nil {
			doc, err = sjson.Set(doc, path, value)
		}
	}

	set("size", res.Final.Size())
	set("percolated_at", res.PercolatedAt)
	set("open_sites", res.Final.NumberOfOpenSites())
	set("threshold", res.Final.Threshold())
	set("steps", []any{})
	for i, st := range res.Steps {
		base := fmt.Sprintf("steps.%d.", i)
		set(base+"step", st.Step)
		set(base+"site", []int{st.Site.Row, st.Site.Col})
		set(base+"open_sites", st.OpenSites)
		set(base+"percolates", st.Percolates)
	}
	if err != nil {
		return "", err
	}
	return string(pretty.Pretty([]byte(doc))), nil
}
