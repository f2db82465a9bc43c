package percolation

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"dynconn/pkg/logutil"
	"dynconn/pkg/unionfind"
)

// ErrInvalidScenario 场景文件格式不对
var ErrInvalidScenario = errors.New("无效的场景文件")

// Site 是一个 1 起始的格子坐标
type Site struct {
	Row, Col int
}

// Scenario 描述一次确定的打开顺序：
//
//	{"n": 3, "variant": "weighted", "open": [[1,1],[2,1],[3,1]]}
//
// variant 可以省略，默认是加权实现
type Scenario struct {
	Size    int
	Variant string
	Sites   []Site
}

// isInteger 判断是不是没有小数部分的数字
func isInteger(r gjson.Result) bool {
	return r.Type == gjson.Number && float64(r.Int()) == r.Float()
}

// ParseScenario 解析场景 JSON
// 坐标是否越界在 Replay 时才检查，这样能报告出是第几步出错
func ParseScenario(data []byte) (*Scenario, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: 不是合法的 JSON", ErrInvalidScenario)
	}
	doc := gjson.ParseBytes(data)

	n := doc.Get("n")
	if !isInteger(n) || n.Int() <= 0 || n.Int() > MaxSize {
		return nil, fmt.Errorf("%w: n 必须是 [1, %d] 内的整数，实际是 %s", ErrInvalidScenario, MaxSize, n.Raw)
	}

	sc := &Scenario{Size: int(n.Int()), Variant: doc.Get("variant").String()}
	if sc.Variant == "" {
		sc.Variant = unionfind.NameWeighted
	}
	if _, err := unionfind.Lookup(sc.Variant); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	opens := doc.Get("open")
	if opens.Exists() && !opens.IsArray() {
		return nil, fmt.Errorf("%w: open 必须是数组", ErrInvalidScenario)
	}
	var parseErr error
	idx := 0
	opens.ForEach(func(_, value gjson.Result) bool {
		coords := value.Array()
		if !value.IsArray() || len(coords) != 2 ||
			!isInteger(coords[0]) || !isInteger(coords[1]) {
			parseErr = fmt.Errorf("%w: open[%d] = %s 不是 [row, col]", ErrInvalidScenario, idx, value.Raw)
			return false
		}
		sc.Sites = append(sc.Sites, Site{Row: int(coords[0].Int()), Col: int(coords[1].Int())})
		idx++
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return sc, nil
}

// ReplayStep 是打开一个格子之后的状态
type ReplayStep struct {
	Step       int // 从 1 开始
	Site       Site
	OpenSites  int
	Percolates bool
	Grid       string // Render 的结果
}

// ReplayResult 是整个场景的回放结果
type ReplayResult struct {
	Initial string // 打开任何格子之前的网格
	Steps   []ReplayStep
	// PercolatedAt 是第一次渗透的步数，从未渗透时为 0
	PercolatedAt int
	Final        *Percolation
}

// Replay 按顺序打开场景里的格子，记录每一步的状态
func Replay(sc *Scenario) (*ReplayResult, error) {
	factory, err := unionfind.Lookup(sc.Variant)
	if err != nil {
		return nil, err
	}
	perc, err := New(sc.Size, WithUnionFind(factory))
	if err != nil {
		return nil, err
	}

	res := &ReplayResult{Initial: perc.Render(), Final: perc}
	for i, site := range sc.Sites {
		if err := perc.Open(site.Row, site.Col); err != nil {
			return nil, fmt.Errorf("第 %d 步: %w", i+1, err)
		}
		step := ReplayStep{
			Step:       i + 1,
			Site:       site,
			OpenSites:  perc.NumberOfOpenSites(),
			Percolates: perc.Percolates(),
			Grid:       perc.Render(),
		}
		if step.Percolates && res.PercolatedAt == 0 {
			res.PercolatedAt = step.Step
			logutil.Debug("scenario percolates at step %d (%d, %d)", step.Step, site.Row, site.Col)
		}
		res.Steps = append(res.Steps, step)
	}
	return res, nil
}
