package percolation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/btree"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"dynconn/pkg/logutil"
	"dynconn/pkg/unionfind"
)

// ErrInvalidTrialConfig 试验参数不合法
var ErrInvalidTrialConfig = errors.New("无效的试验参数")

// TrialConfig 是蒙特卡洛估计渗透阈值的参数，可以从 TOML 文件加载
type TrialConfig struct {
	Size       int     `toml:"size"`       // 网格边长
	Trials     int     `toml:"trials"`     // 独立试验次数
	Workers    int     `toml:"workers"`    // 并发的试验数，<= 0 表示 CPU 核数
	Seed       uint64  `toml:"seed"`       // 随机种子，相同种子结果相同
	Variant    string  `toml:"variant"`    // 并查集实现，见 unionfind.Variants
	Confidence float64 `toml:"confidence"` // 置信水平，(0, 1)
}

// DefaultTrialConfig 返回默认参数
func DefaultTrialConfig() TrialConfig {
	return TrialConfig{
		Size:       200,
		Trials:     100,
		Workers:    runtime.NumCPU(),
		Seed:       1,
		Variant:    unionfind.NameWeighted,
		Confidence: 0.95,
	}
}

// Load 从 TOML 文件加载参数，文件里没有的字段保持原值
func (c *TrialConfig) Load(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: 配置文件 %s 含有未知字段 %v", ErrInvalidTrialConfig, path, undecoded)
	}
	return nil
}

// Validate 检查参数
func (c TrialConfig) Validate() error {
	if c.Size <= 0 || c.Size > MaxSize {
		return fmt.Errorf("%w: 网格边长 %d", ErrInvalidTrialConfig, c.Size)
	}
	if c.Trials <= 0 {
		return fmt.Errorf("%w: 试验次数 %d", ErrInvalidTrialConfig, c.Trials)
	}
	if !(c.Confidence > 0 && c.Confidence < 1) {
		return fmt.Errorf("%w: 置信水平 %v 不在 (0, 1) 内", ErrInvalidTrialConfig, c.Confidence)
	}
	if _, err := unionfind.Lookup(c.Variant); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTrialConfig, err)
	}
	return nil
}

// sample 是一次试验的结果，阈值相同时按试验序号区分
type sample struct {
	threshold float64
	trial     int
}

func sampleLess(a, b sample) bool {
	if a.threshold != b.threshold {
		return a.threshold < b.threshold
	}
	return a.trial < b.trial
}

// TrialStats 是多次试验的统计结果
type TrialStats struct {
	Size         int
	Trials       int
	Variant      string
	Mean         float64
	StdDev       float64
	Confidence   float64
	ConfidenceLo float64
	ConfidenceHi float64
	Min          float64
	Max          float64
	Elapsed      time.Duration

	ordered *btree.BTreeG[sample]
}

// Percentile 返回 q 分位的阈值(最近秩法)，q 会被截断到 [0, 1]
func (s *TrialStats) Percentile(q float64) float64 {
	q = math.Max(0, math.Min(1, q))
	rank := int(math.Ceil(q * float64(s.Trials)))
	rank = max(rank, 1)

	var out float64
	seen := 0
	s.ordered.Ascend(func(item sample) bool {
		seen++
		out = item.threshold
		return seen < rank
	})
	return out
}

// Median 即 Percentile(0.5)
func (s *TrialStats) Median() float64 {
	return s.Percentile(0.5)
}

// Thresholds 返回从小到大排好序的所有阈值
func (s *TrialStats) Thresholds() []float64 {
	out := make([]float64, 0, s.ordered.Len())
	s.ordered.Ascend(func(item sample) bool {
		out = append(out, item.threshold)
		return true
	})
	return out
}

// runTrial 在 n×n 的空网格上按随机顺序打开格子，直到渗透为止，返回此时的阈值
// 随机排列等价于每次从关闭的格子里均匀抽一个
func runTrial(n int, factory unionfind.Factory, rng *rand.Rand) (float64, error) {
	perc, err := New(n, WithUnionFind(factory))
	if err != nil {
		return 0, err
	}
	for _, idx := range rng.Perm(n * n) {
		if err := perc.Open(idx/n+1, idx%n+1); err != nil {
			return 0, err
		}
		if perc.Percolates() {
			break
		}
	}
	return perc.Threshold(), nil
}

// RunTrials 运行 cfg.Trials 次独立试验并汇总
// 每次试验独占自己的 Percolation，种子是 (Seed, 试验序号)，所以结果和调度顺序无关
func RunTrials(ctx context.Context, cfg TrialConfig) (*TrialStats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	factory, err := unionfind.Lookup(cfg.Variant)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	thresholds := make([]float64, cfg.Trials)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cfg.Trials {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
			th, err := runTrial(cfg.Size, factory, rng)
			if err != nil {
				return fmt.Errorf("第 %d 次试验失败: %w", i, err)
			}
			thresholds[i] = th
			logutil.Debug("trial %d/%d size=%d threshold=%.6f", i+1, cfg.Trials, cfg.Size, th)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := Summarize(thresholds, cfg.Confidence)
	s.Size = cfg.Size
	s.Variant = cfg.Variant
	if s.Variant == "" {
		s.Variant = unionfind.NameWeighted
	}
	s.Elapsed = time.Since(start)
	return s, nil
}

// Summarize 计算均值、样本标准差和置信区间 mean ± z·σ/√T
// 只有一个样本时标准差按 0 计算
func Summarize(thresholds []float64, confidence float64) *TrialStats {
	s := &TrialStats{
		Trials:     len(thresholds),
		Confidence: confidence,
		ordered:    btree.NewG(8, sampleLess),
	}
	for i, th := range thresholds {
		s.ordered.ReplaceOrInsert(sample{threshold: th, trial: i})
	}
	if len(thresholds) == 0 {
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(thresholds, nil)
	if len(thresholds) == 1 || math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}

	z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	half := z * s.StdDev / math.Sqrt(float64(len(thresholds)))
	s.ConfidenceLo = s.Mean - half
	s.ConfidenceHi = s.Mean + half

	lo, _ := s.ordered.Min()
	hi, _ := s.ordered.Max()
	s.Min, s.Max = lo.threshold, hi.threshold
	return s
}
