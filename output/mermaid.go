package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/CodMac/go-spring-visualizer/graph"
	"github.com/CodMac/go-spring-visualizer/model"
)

// ExportMermaidHTML 生成包含 Mermaid.js 渲染逻辑的静态网页，节点按包分组
func ExportMermaidHTML(w io.Writer, g *graph.Graph, features Features) error {
	var sb strings.Builder

	// 1. 写入 HTML 模板头部
	sb.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Spring Components</title>
    <script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
    <style>
        body { font-family: -apple-system, sans-serif; background: #f0f2f5; margin: 20px; }
        .mermaid { background: white; padding: 20px; border-radius: 12px; box-shadow: 0 4px 15px rgba(0,0,0,0.1); }
        h1 { color: #1a1a1a; text-align: center; }
    </style>
</head>
<body>
    <h1>Spring Components</h1>
    <div class="mermaid">
    graph LR
`)

	// 2. 每种标签一个样式
	for _, e := range Legend() {
		fmt.Fprintf(&sb, "    classDef %s fill:%s\n", classOf(e.Label), e.Color)
	}
	fmt.Fprintf(&sb, "    classDef %s fill:%s\n", classOf(tagLabel(model.TagPlain)), model.TagPlain.Color())

	// 3. 按包分组输出节点，包名未知的节点放在最外层
	edges := visibleEdges(g, features)
	var order []string
	groups := make(map[string][]graph.Node)
	for _, n := range g.Nodes() {
		if _, ok := groups[n.Package]; !ok {
			order = append(order, n.Package)
		}
		groups[n.Package] = append(groups[n.Package], n)
	}
	for _, pkg := range order {
		indent := "    "
		if pkg != "" {
			fmt.Fprintf(&sb, "    subgraph %s[\"📦 %s\"]\n", safeID("pkg."+pkg), pkg)
			indent = "        "
		}
		for _, n := range groups[pkg] {
			fmt.Fprintf(&sb, "%s%s[\"%s\"]:::%s\n", indent, safeID(n.Name), n.Name, classOf(tagLabel(n.Tag)))
		}
		if pkg != "" {
			sb.WriteString("    end\n")
		}
	}

	// 4. 生成依赖关系
	for _, e := range edges {
		arrow := "-->"
		if e.Kind == graph.EdgeImport {
			arrow = "-.->"
		}
		fmt.Fprintf(&sb, "    %s %s|\"%s\"| %s\n", safeID(e.Source), arrow, e.Label, safeID(e.Target))
	}

	// 5. 写入脚本初始化和结尾
	sb.WriteString(`    </div>
    <script>
        mermaid.initialize({
            startOnLoad: true,
            maxTextSize: 100000,
            theme: 'default',
            flowchart: { useMaxWidth: false, htmlLabels: true }
        });
    </script>
</body>
</html>
`)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write mermaid output: %w", err)
	}
	return nil
}

func tagLabel(t model.Tag) string {
	switch t {
	case model.TagUnresolved:
		return LegendUnresolved
	case model.TagPlain:
		return "Plain"
	}
	return "@" + string(t)
}

func classOf(label string) string {
	return "tag_" + strings.Trim(label, "@()")
}

// safeID 确保名称符合 Mermaid 的 ID 命名规范
func safeID(id string) string {
	r := strings.NewReplacer(".", "_", "/", "_", "-", "_", "\\", "_", ":", "_", "@", "_", "$", "_")
	return "n_" + r.Replace(id)
}
