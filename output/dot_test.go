package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/CodMac/go-spring-visualizer/graph"
	"github.com/CodMac/go-spring-visualizer/model"
	"github.com/CodMac/go-spring-visualizer/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *graph.Graph {
	return graph.Build([]model.FileEntities{
		{Path: "p/Cfg.java", Package: "p", Entities: []model.Entity{
			{Kind: model.EntityConfiguration, Source: "Cfg", Stereotype: model.StereotypeConfiguration},
			{Kind: model.EntityComponentScan, Source: "Cfg", Target: "p"},
			{Kind: model.EntityBean, Source: "Cfg", Target: "MyBean", Name: "myBean"},
		}},
		{Path: "p/Svc.java", Package: "p", Entities: []model.Entity{
			{Kind: model.EntityComponent, Source: "Svc", Stereotype: model.StereotypeService},
			{Kind: model.EntityAutowired, Source: "Svc", Target: "MyBean", Injection: model.InjectField},
			{Kind: model.EntityAutowired, Source: "Svc", Target: "Missing", Injection: model.InjectField},
		}},
	})
}

const sampleDOT = `digraph Components {
    # Legend
    "@SpringBootApplication" [fillcolor="#2c9162",style=filled];
    "@Controller" [fillcolor="#7050bf",style=filled];
    "@Service" [fillcolor="#a81347",style=filled];
    "@Repository" [fillcolor="#e06907",style=filled];
    "@Configuration" [fillcolor="#28a9e0",style=filled];
    "@Component" [fillcolor="#ffc400",style=filled];
    "@Bean" [fillcolor="#6b1d1d",style=filled];
    "(unresolved)" [fillcolor="#d9d9d9",style=filled];

    # Align legend
    "@SpringBootApplication" -> "@Controller" [style=invis];
    "@Controller" -> "@Service" [style=invis];
    "@Service" -> "@Repository" [style=invis];
    "@Repository" -> "@Configuration" [style=invis];
    "@Configuration" -> "@Component" [style=invis];
    "@Component" -> "@Bean" [style=invis];
    "@Bean" -> "(unresolved)" [style=invis];

    # Nodes
    Cfg [fillcolor="#28a9e0",style=filled];
    MyBean [fillcolor="#6b1d1d",style=filled];
    Svc [fillcolor="#a81347",style=filled];
    Missing [fillcolor="#d9d9d9",style="filled,dashed"];

    # Edges
    Cfg -> MyBean [label="@Bean"];
    Svc -> MyBean [label="@Autowired"];
    Svc -> Missing [label="@Autowired"];
}
`

func TestRenderDOT(t *testing.T) {
	t.Run("Default Features", func(t *testing.T) {
		assert.Equal(t, sampleDOT, output.RenderDOT(sampleGraph(), output.DefaultFeatures()))
	})

	t.Run("Byte Identical Across Runs", func(t *testing.T) {
		g := sampleGraph()
		first := output.RenderDOT(g, output.DefaultFeatures())
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, output.RenderDOT(g, output.DefaultFeatures()))
			assert.Equal(t, first, output.RenderDOT(sampleGraph(), output.DefaultFeatures()))
		}
	})

	t.Run("Component Scan Section", func(t *testing.T) {
		features, err := output.ParseFeatures("componentscan,bean")
		require.NoError(t, err)
		dot := output.RenderDOT(sampleGraph(), features)

		assert.Contains(t, dot, "    # Component scans\n"+
			"    \"p\" [shape=folder,style=filled];\n"+
			"    Cfg -> \"p\" [label=\"@ComponentScan\"];\n"+
			"    \"p\" -> Cfg [label=contains];\n"+
			"    \"p\" -> Svc [label=contains];\n}\n")
		assert.Contains(t, dot, "Cfg -> MyBean [label=\"@Bean\"];")
		assert.NotContains(t, dot, "@Autowired\"]")
		// 节点保留，被过滤的只是关系
		assert.Contains(t, dot, "    Missing [fillcolor=\"#d9d9d9\",style=\"filled,dashed\"];\n")
		assert.NotContains(t, dot, "-> Missing")
	})

	t.Run("Features Filter Edges", func(t *testing.T) {
		features, err := output.ParseFeatures("import")
		require.NoError(t, err)
		dot := output.RenderDOT(sampleGraph(), features)
		assert.NotContains(t, dot, " -> MyBean")
		assert.Contains(t, dot, "    MyBean [fillcolor=\"#6b1d1d\",style=filled];\n")
		assert.Contains(t, dot, "    Svc [fillcolor=\"#a81347\",style=filled];\n")
		assert.NotContains(t, dot, "# Component scans")
	})

	t.Run("Every Node Is Rendered", func(t *testing.T) {
		// 只有 @ComponentScan 的普通类在默认特性下也要输出
		g := graph.Build([]model.FileEntities{{Path: "p/Scanner.java", Package: "p", Entities: []model.Entity{
			{Kind: model.EntityComponentScan, Source: "Scanner", Target: "p"},
		}}})
		dot := output.RenderDOT(g, output.DefaultFeatures())
		assert.Contains(t, dot, "    # Nodes\n    Scanner [fillcolor=\"#ffffff\",style=filled];\n\n    # Edges\n}\n")
	})

	t.Run("Writer", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, output.NewDOTWriter(&buf, nil).Write(sampleGraph()))
		assert.Equal(t, sampleDOT, buf.String())
	})

	t.Run("Empty Graph Is Valid", func(t *testing.T) {
		dot := output.RenderDOT(graph.New(), output.DefaultFeatures())
		assert.True(t, strings.HasPrefix(dot, "digraph Components {\n"))
		assert.True(t, strings.HasSuffix(dot, "}\n"))
		assert.Equal(t, strings.Count(dot, "{"), strings.Count(dot, "}"))
	})
}

func TestQuoteID(t *testing.T) {
	cases := map[string]string{
		"Foo":         "Foo",
		"_foo1":       "_foo1",
		"Outer$Inner": `"Outer$Inner"`,
		"1st":         `"1st"`,
		"graph":       `"graph"`,
		"Node":        `"Node"`,
		"@Bean":       `"@Bean"`,
		`say "hi"`:    `"say \"hi\""`,
		`back\slash`:  `"back\\slash"`,
		"com.example": `"com.example"`,
		"":            `""`,
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, output.QuoteID(in))
		})
	}
}

func TestParseFeatures(t *testing.T) {
	fs, err := output.ParseFeatures(" Import, bean,import ")
	require.NoError(t, err)
	assert.Equal(t, output.Features{output.FeatureImport, output.FeatureBean}, fs)
	assert.Equal(t, "import,bean", fs.String())

	_, err = output.ParseFeatures("import,beans")
	assert.Error(t, err)

	_, err = output.ParseFeatures(" , ")
	assert.Error(t, err)

	assert.False(t, output.DefaultFeatures().Has(output.FeatureComponentScan))
}

func TestExportGraph(t *testing.T) {
	var buf bytes.Buffer
	count, err := output.ExportGraph(&buf, sampleGraph())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, count)
	assert.Equal(t, 4+3+1, count)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "NODE", first["Type"])
	assert.Equal(t, "Cfg", first["Name"])
	assert.Equal(t, "#28a9e0", first["Color"])
	assert.Equal(t, "p", first["Package"])

	var edge map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[4]), &edge))
	assert.Equal(t, "EDGE", edge["Type"])
	assert.Equal(t, "@Bean", edge["Label"])

	var scan map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[7]), &scan))
	assert.Equal(t, "SCAN", scan["Type"])
	assert.Equal(t, []any{"Cfg", "Svc"}, scan["Covered"])
}

func TestExportMermaidHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.ExportMermaidHTML(&buf, sampleGraph(), output.DefaultFeatures()))
	html := buf.String()

	assert.Contains(t, html, "graph LR")
	assert.Contains(t, html, `subgraph n_pkg_p["📦 p"]`)
	assert.Contains(t, html, `n_Cfg["Cfg"]:::tag_Configuration`)
	assert.Contains(t, html, `n_Missing["Missing"]:::tag_unresolved`)
	assert.Contains(t, html, `n_Svc -->|"@Autowired"| n_MyBean`)
	assert.True(t, strings.HasSuffix(html, "</html>\n"))
}
