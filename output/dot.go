package output

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/CodMac/go-spring-visualizer/graph"
	"github.com/CodMac/go-spring-visualizer/model"
)

const dotGraphName = "Components"

// LegendUnresolved 不是合法的 Java 类名，不会与真实节点冲突
const LegendUnresolved = "(unresolved)"

// LegendEntry 是图例中的一行
type LegendEntry struct {
	Label string
	Color string
}

// Legend 按 stereotype 优先级排列，随后是 @Bean 和占位节点
func Legend() []LegendEntry {
	entries := make([]LegendEntry, 0, len(model.Stereotypes)+2)
	for _, st := range model.Stereotypes {
		entries = append(entries, LegendEntry{Label: "@" + string(st), Color: model.TagOf(st).Color()})
	}
	entries = append(entries,
		LegendEntry{Label: "@Bean", Color: model.TagBean.Color()},
		LegendEntry{Label: LegendUnresolved, Color: model.TagUnresolved.Color()},
	)
	return entries
}

// DOTWriter 把装配好的图写成 Graphviz DOT 文本，同一张图的输出逐字节一致
type DOTWriter struct {
	w        io.Writer
	features Features
}

func NewDOTWriter(w io.Writer, features Features) *DOTWriter {
	if len(features) == 0 {
		features = DefaultFeatures()
	}
	return &DOTWriter{w: w, features: features}
}

func (d *DOTWriter) Write(g *graph.Graph) error {
	if _, err := io.WriteString(d.w, RenderDOT(g, d.features)); err != nil {
		return fmt.Errorf("failed to write dot output: %w", err)
	}
	return nil
}

// RenderDOT 渲染顺序：图例、节点、边、组件扫描
func RenderDOT(g *graph.Graph, features Features) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %s {\n", dotGraphName)

	// 1. 图例
	legend := Legend()
	sb.WriteString("    # Legend\n")
	for _, e := range legend {
		fmt.Fprintf(&sb, "    %s [fillcolor=%s,style=filled];\n", QuoteID(e.Label), quote(e.Color))
	}
	sb.WriteString("\n    # Align legend\n")
	for i := 0; i+1 < len(legend); i++ {
		fmt.Fprintf(&sb, "    %s -> %s [style=invis];\n", QuoteID(legend[i].Label), QuoteID(legend[i+1].Label))
	}

	edges := visibleEdges(g, features)
	var scans []graph.ScanDirective
	if features.Has(FeatureComponentScan) {
		scans = g.Scans()
	}

	// 2. 节点：每个节点一条语句，特性过滤只作用于关系
	sb.WriteString("\n    # Nodes\n")
	for _, n := range g.Nodes() {
		style := "filled"
		if n.IsPlaceholder() {
			style = "filled,dashed"
		}
		fmt.Fprintf(&sb, "    %s [fillcolor=%s,style=%s];\n", QuoteID(n.Name), quote(n.Color()), QuoteID(style))
	}

	// 3. 边
	sb.WriteString("\n    # Edges\n")
	for _, e := range edges {
		fmt.Fprintf(&sb, "    %s -> %s [label=%s];\n", QuoteID(e.Source), QuoteID(e.Target), quote(e.Label))
	}

	// 4. 组件扫描：包节点、扫描关系和包含关系
	if len(scans) > 0 {
		sb.WriteString("\n    # Component scans\n")
		seen := make(map[string]bool)
		for _, s := range scans {
			if !seen[s.Package] {
				seen[s.Package] = true
				fmt.Fprintf(&sb, "    %s [shape=folder,style=filled];\n", quote(s.Package))
			}
			fmt.Fprintf(&sb, "    %s -> %s [label=%s];\n", QuoteID(s.Source), quote(s.Package), quote(graph.LabelComponentScan))
		}
		contained := make(map[string]bool)
		for _, s := range scans {
			for _, n := range g.ScannedBy(s) {
				key := s.Package + "\x00" + n.Name
				if contained[key] {
					continue
				}
				contained[key] = true
				fmt.Fprintf(&sb, "    %s -> %s [label=%s];\n", quote(s.Package), QuoteID(n.Name), graph.LabelScanContainment)
			}
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func visibleEdges(g *graph.Graph, features Features) []graph.Edge {
	var out []graph.Edge
	for _, e := range g.Edges() {
		switch {
		case e.Kind == graph.EdgeImport && features.Has(FeatureImport),
			e.Kind == graph.EdgeBean && features.Has(FeatureBean),
			e.Kind == graph.EdgeAutowired && features.Has(FeatureAutowired):
			out = append(out, e)
		}
	}
	return out
}

var bareID = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var dotKeywords = map[string]bool{
	"node": true, "edge": true, "graph": true, "digraph": true, "subgraph": true, "strict": true,
}

// QuoteID 只有安全的标识符才保持裸写，其余加引号并转义
func QuoteID(id string) string {
	if bareID.MatchString(id) && !dotKeywords[strings.ToLower(id)] {
		return id
	}
	return quote(id)
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
