package graph

import (
	"strings"

	"github.com/CodMac/go-spring-visualizer/model"
)

// EdgeKind 是图中边的类型
type EdgeKind string

const (
	EdgeImport    EdgeKind = "Import"
	EdgeBean      EdgeKind = "Bean"
	EdgeAutowired EdgeKind = "Autowired"
)

// 边标签
const (
	LabelImport          = "@Import"
	LabelBean            = "@Bean"
	LabelAutowired       = "@Autowired"
	LabelAutowiredCtor   = "@Autowired (CI)"
	LabelComponentScan   = "@ComponentScan"
	LabelScanContainment = "contains"
)

// Node 以简单类名为身份
type Node struct {
	Name    string    `json:"Name"`
	Tag     model.Tag `json:"Tag"`
	Package string    `json:"Package,omitempty"` // 仅在源码中声明过时已知
}

func (n Node) Color() string { return n.Tag.Color() }

// IsPlaceholder 表示节点只被引用、从未声明
func (n Node) IsPlaceholder() bool { return !n.Tag.IsResolved() }

// Stereotype 返回节点的 stereotype (若有)
func (n Node) Stereotype() (model.Stereotype, bool) { return n.Tag.Stereotype() }

type Edge struct {
	Source string   `json:"Source"`
	Target string   `json:"Target"`
	Kind   EdgeKind `json:"Kind"`
	Label  string   `json:"Label"`
}

// ScanDirective 是 (配置类, 包前缀) 对，不是图中的边
type ScanDirective struct {
	Source  string `json:"Source"`
	Package string `json:"Package"`
}

// Covers 判断包名是否落在扫描前缀之下 (按 '.' 边界匹配)
func (s ScanDirective) Covers(pkg string) bool {
	return pkg == s.Package || strings.HasPrefix(pkg, s.Package+".")
}

// Graph 节点和边都按插入顺序保存；节点身份唯一，边的端点一定存在
type Graph struct {
	nodes   []*Node
	index   map[string]*Node
	edges   []Edge
	edgeSet map[Edge]struct{}
	scans   []ScanDirective
	scanSet map[ScanDirective]struct{}
}

func New() *Graph {
	return &Graph{
		index:   make(map[string]*Node),
		edgeSet: make(map[Edge]struct{}),
		scanSet: make(map[ScanDirective]struct{}),
	}
}

// Nodes 返回按插入顺序排列的节点副本
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = *n
	}
	return out
}

func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.index[name]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

func (g *Graph) Scans() []ScanDirective {
	return append([]ScanDirective(nil), g.scans...)
}

// OutEdges 返回以 name 为源的边
func (g *Graph) OutEdges(name string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == name {
			out = append(out, e)
		}
	}
	return out
}

// ScannedBy 返回被指定扫描覆盖、带 stereotype 的节点
func (g *Graph) ScannedBy(scan ScanDirective) []Node {
	var out []Node
	for _, n := range g.nodes {
		if _, ok := n.Tag.Stereotype(); ok && n.Package != "" && scan.Covers(n.Package) {
			out = append(out, *n)
		}
	}
	return out
}

// Uncovered 列出不会被注册的组件：带 stereotype、包已知、不被任何扫描前缀覆盖、
// 也不是 @Import 的目标。应用入口类本身不参与判断。
func (g *Graph) Uncovered() []Node {
	imported := make(map[string]bool)
	for _, e := range g.edges {
		if e.Kind == EdgeImport {
			imported[e.Target] = true
		}
	}

	var out []Node
	for _, n := range g.nodes {
		st, ok := n.Tag.Stereotype()
		if !ok || st == model.StereotypeApplication || n.Package == "" || imported[n.Name] {
			continue
		}
		covered := false
		for _, s := range g.scans {
			if s.Covers(n.Package) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, *n)
		}
	}
	return out
}

// ensure 返回已有节点，不存在时以占位节点插入
func (g *Graph) ensure(name string) *Node {
	if n, ok := g.index[name]; ok {
		return n
	}
	n := &Node{Name: name, Tag: model.TagUnresolved}
	g.nodes = append(g.nodes, n)
	g.index[name] = n
	return n
}

// addEdge 相同的边只追加一次
func (g *Graph) addEdge(e Edge) {
	if _, ok := g.edgeSet[e]; ok {
		return
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
}

func (g *Graph) addScan(s ScanDirective) {
	if _, ok := g.scanSet[s]; ok {
		return
	}
	g.scanSet[s] = struct{}{}
	g.scans = append(g.scans, s)
}
