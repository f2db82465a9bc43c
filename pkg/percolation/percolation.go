package percolation

import (
	"fmt"
	"strings"

	"dynconn/pkg/unionfind"
)

// ErrInvalidIndex 行列坐标不在 [1, n] 内，可以和 unionfind.ErrInvalidIndex 用 errors.Is 匹配
var ErrInvalidIndex = unionfind.ErrInvalidIndex

// MaxSize 是网格边长的上限，保证 n*n+2 在 32 位平台上也不会溢出
const MaxSize = 1 << 15

type siteState uint8

const (
	closed siteState = iota // 初始状态
	open                    // 打开后不会再关闭
)

// Percolation 是 n×n 的渗透网格
// 并查集大小为 n*n+2：下标 0 是虚拟的 TOP，n*n+1 是虚拟的 BOTTOM，
// 格子 (row, col) 映射到 n*(row-1)+col
// 格子状态按行优先、从 0 开始存储，对外的行列坐标从 1 开始，只在边界换算一次
// 不是并发安全的
type Percolation struct {
	n         int
	sites     []siteState
	openCount int
	uf        unionfind.UnionFind
	top       int
	bottom    int
}

type options struct {
	factory unionfind.Factory
}

// Option 配置 Percolation
type Option func(*options)

// WithUnionFind 指定底层并查集实现，默认是加权实现
func WithUnionFind(f unionfind.Factory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}

// New 创建 n×n 的网格，所有格子初始都是关闭的
func New(n int, opts ...Option) (*Percolation, error) {
	if n <= 0 || n > MaxSize {
		return nil, fmt.Errorf("%w: 网格边长 %d 不在 [1, %d] 内", unionfind.ErrInvalidConstruction, n, MaxSize)
	}

	o := options{factory: unionfind.Default}
	for _, opt := range opts {
		opt(&o)
	}

	uf, err := o.factory(n*n + 2)
	if err != nil {
		return nil, err
	}

	return &Percolation{
		n:      n,
		sites:  make([]siteState, n*n),
		uf:     uf,
		top:    0,
		bottom: n*n + 1,
	}, nil
}

// Size 返回网格边长 n
func (p *Percolation) Size() int { return p.n }

func (p *Percolation) validate(row, col int) error {
	if row < 1 || row > p.n || col < 1 || col > p.n {
		return fmt.Errorf("%w: (%d, %d) 不在 [1, %d] 内", ErrInvalidIndex, row, col, p.n)
	}
	return nil
}

// flatIndex 是格子在并查集里的下标
func (p *Percolation) flatIndex(row, col int) int {
	return p.n*(row-1) + col
}

// siteIndex 是格子在状态数组里的下标
func (p *Percolation) siteIndex(row, col int) int {
	return p.n*(row-1) + (col - 1)
}

func (p *Percolation) isOpen(row, col int) bool {
	return p.sites[p.siteIndex(row, col)] == open
}

// Open 打开格子 (row, col)，并和虚拟节点以及已打开的相邻格子合并
// 重复打开是空操作，不会重复计数
func (p *Percolation) Open(row, col int) error {
	if err := p.validate(row, col); err != nil {
		return err
	}
	if p.isOpen(row, col) {
		return nil
	}

	p.sites[p.siteIndex(row, col)] = open
	p.openCount++

	idx := p.flatIndex(row, col)
	if row == 1 {
		p.uf.Union(idx, p.top)
	}
	if row == p.n {
		p.uf.Union(idx, p.bottom)
	}

	// 上 下 右 左
	p.unionNeighbor(idx, row-1, col)
	p.unionNeighbor(idx, row+1, col)
	p.unionNeighbor(idx, row, col+1)
	p.unionNeighbor(idx, row, col-1)
	return nil
}

// unionNeighbor 相邻格子在网格内并且已经打开时才合并
func (p *Percolation) unionNeighbor(idx, row, col int) {
	if row < 1 || row > p.n || col < 1 || col > p.n {
		return
	}
	if !p.isOpen(row, col) {
		return
	}
	p.uf.Union(idx, p.flatIndex(row, col))
}

// IsOpen 判断格子是否已打开
func (p *Percolation) IsOpen(row, col int) (bool, error) {
	if err := p.validate(row, col); err != nil {
		return false, err
	}
	return p.isOpen(row, col), nil
}

// IsFull 判断格子是否和 TOP 连通
// 关闭的格子从来不会被合并，所以一定不满
func (p *Percolation) IsFull(row, col int) (bool, error) {
	if err := p.validate(row, col); err != nil {
		return false, err
	}
	return p.uf.Connected(p.flatIndex(row, col), p.top), nil
}

// Percolates 判断 TOP 和 BOTTOM 是否连通
func (p *Percolation) Percolates() bool {
	return p.uf.Connected(p.top, p.bottom)
}

// NumberOfOpenSites 返回已打开的格子数
func (p *Percolation) NumberOfOpenSites() int {
	return p.openCount
}

// Threshold 返回已打开格子的比例 open / n²，范围 [0, 1]
func (p *Percolation) Threshold() float64 {
	return float64(p.openCount) / float64(p.n*p.n)
}

const (
	glyphClosed = '#'
	glyphOpen   = '.'
	glyphFull   = '~'
)

// Render 把网格画成文本，每行一个网格行
// '#' 关闭，'.' 打开但不满，'~' 和 TOP 连通
func (p *Percolation) Render() string {
	var sb strings.Builder
	sb.Grow(p.n * (p.n + 1))
	for row := 1; row <= p.n; row++ {
		for col := 1; col <= p.n; col++ {
			switch {
			case !p.isOpen(row, col):
				sb.WriteByte(glyphClosed)
			case p.uf.Connected(p.flatIndex(row, col), p.top):
				sb.WriteByte(glyphFull)
			default:
				sb.WriteByte(glyphOpen)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
