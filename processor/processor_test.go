package processor_test

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CodMac/go-spring-visualizer/graph"
	"github.com/CodMac/go-spring-visualizer/model"
	"github.com/CodMac/go-spring-visualizer/output"
	"github.com/CodMac/go-spring-visualizer/processor"
	"github.com/CodMac/go-spring-visualizer/source"
	_ "github.com/CodMac/go-spring-visualizer/x/java"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testdataDir(parts ...string) string {
	return filepath.Join(append([]string{"..", "x", "java", "testdata"}, parts...)...)
}

func demoFiles(t *testing.T) []model.SourceFile {
	t.Helper()
	files, err := source.Discover(testdataDir("com", "example", "demo"), model.LangJava)
	require.NoError(t, err)
	require.Len(t, files, 8)
	return files
}

func newProcessor(t *testing.T, workers int, opts ...processor.Option) *processor.FileProcessor {
	t.Helper()
	fp, err := processor.NewFileProcessor(model.LangJava, workers, opts...)
	require.NoError(t, err)
	return fp
}

func analyze(t *testing.T, workers int, files []model.SourceFile) *graph.Graph {
	t.Helper()
	g, err := newProcessor(t, workers).Analyze(context.Background(), files)
	require.NoError(t, err)
	return g
}

func TestFileProcessor_DemoProject(t *testing.T) {
	g := analyze(t, 4, demoFiles(t))

	edges := g.Edges()
	for _, want := range []graph.Edge{
		{Source: "DemoApplication", Target: "ServiceConfig", Kind: graph.EdgeImport, Label: graph.LabelImport},
		{Source: "ServiceConfig", Target: "DaoConfig", Kind: graph.EdgeImport, Label: graph.LabelImport},
		{Source: "ServiceConfig", Target: "MyBean", Kind: graph.EdgeBean, Label: graph.LabelBean},
		{Source: "BarService", Target: "MyBean", Kind: graph.EdgeAutowired, Label: graph.LabelAutowired},
		{Source: "BarService", Target: "ConstructorInjected", Kind: graph.EdgeBean, Label: graph.LabelBean},
		{Source: "ConstructorInjected", Target: "ConstructorInjected", Kind: graph.EdgeAutowired, Label: graph.LabelAutowiredCtor},
		{Source: "ConstructorInjection", Target: "ConstructorInjected", Kind: graph.EdgeAutowired, Label: graph.LabelAutowiredCtor},
		{Source: "FooService", Target: "MissingDependency", Kind: graph.EdgeAutowired, Label: graph.LabelAutowired},
		{Source: "UserController", Target: "UserRepository", Kind: graph.EdgeAutowired, Label: graph.LabelAutowiredCtor},
		{Source: "UserController", Target: "BarService", Kind: graph.EdgeAutowired, Label: graph.LabelAutowired},
	} {
		assert.Contains(t, edges, want)
	}
	assert.Len(t, edges, 10, "noise types never become targets")

	tags := map[string]model.Tag{
		"DemoApplication":     model.TagApplication,
		"ServiceConfig":       model.TagConfiguration,
		"DaoConfig":           model.TagConfiguration,
		"MyBean":              model.TagBean,
		"ConstructorInjected": model.TagBean,
		"BarService":          model.TagService,
		"FooService":          model.TagService,
		"UserRepository":      model.TagRepository,
		"UserController":      model.TagController,
		"MissingDependency":   model.TagUnresolved,
	}
	for name, tag := range tags {
		n, ok := g.Node(name)
		require.True(t, ok, name)
		assert.Equal(t, tag, n.Tag, name)
	}

	missing, _ := g.Node("MissingDependency")
	assert.True(t, missing.IsPlaceholder())
	assert.Empty(t, g.OutEdges("MissingDependency"))

	bar, _ := g.Node("BarService")
	assert.Equal(t, "com.example.demo.service", bar.Package)

	assert.Equal(t, []graph.ScanDirective{
		{Source: "DaoConfig", Package: "com.example.demo.repository"},
		{Source: "DemoApplication", Package: "com.example.demo"},
		{Source: "ServiceConfig", Package: "com.example.demo.service"},
	}, g.Scans())
	assert.Empty(t, g.Uncovered())
}

func TestFileProcessor_Deterministic(t *testing.T) {
	files := demoFiles(t)
	reversed := make([]model.SourceFile, len(files))
	for i, f := range files {
		reversed[len(files)-1-i] = f
	}

	want := output.RenderDOT(analyze(t, 1, files), output.AllFeatures)
	for _, workers := range []int{1, 2, 8} {
		assert.Equal(t, want, output.RenderDOT(analyze(t, workers, files), output.AllFeatures))
		assert.Equal(t, want, output.RenderDOT(analyze(t, workers, reversed), output.AllFeatures),
			"input order must not matter")
	}
}

func TestFileProcessor_Cache(t *testing.T) {
	src := []byte(`package p;
@Service
public class Same {
    @Autowired Dep dep;
}`)
	files := []model.SourceFile{
		{Path: "a/Same.java", Source: src},
		{Path: "b/Same.java", Source: src},
		{Path: "c/Same.java", Package: "q", Source: src},
	}

	for _, size := range []int{0, 16} {
		fp := newProcessor(t, 2, processor.WithCacheSize(size))
		batches, err := fp.ProcessFiles(context.Background(), files)
		require.NoError(t, err)
		require.Len(t, batches, 3)

		assert.Equal(t, "p", batches[0].Package)
		assert.Equal(t, "p", batches[1].Package)
		assert.Equal(t, "q", batches[2].Package, "caller supplied package wins")
		for _, b := range batches {
			require.NotEmpty(t, b.Entities)
			for _, e := range b.Entities {
				if e.Location != nil {
					assert.Equal(t, b.Path, e.Location.FilePath)
				}
			}
		}

		// 第二次运行结果不变
		again, err := fp.ProcessFiles(context.Background(), files)
		require.NoError(t, err)
		assert.Equal(t, batches, again)
	}
}

func TestFileProcessor_MalformedFile(t *testing.T) {
	files, err := source.Discover(testdataDir("malformed"), model.LangJava)
	require.NoError(t, err)
	files = append(files, demoFiles(t)...)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	fp := newProcessor(t, 2, processor.WithLogger(logger))

	g, err := fp.Analyze(context.Background(), files)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Broken.java")

	assert.Contains(t, g.Edges(), graph.Edge{Source: "ServiceConfig", Target: "MyBean", Kind: graph.EdgeBean, Label: graph.LabelBean})
}

func TestFileProcessor_Errors(t *testing.T) {
	t.Run("Unregistered Language", func(t *testing.T) {
		_, err := processor.NewFileProcessor(model.Language("cobol"), 1)
		assert.Error(t, err)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newProcessor(t, 2).Analyze(ctx, demoFiles(t))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("No Files", func(t *testing.T) {
		g, err := newProcessor(t, 2).Analyze(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, g.Nodes())
	})
}

func TestFileProcessor_SelfInjection(t *testing.T) {
	src := []byte(`package p;

@Service
public class Self {
    @Autowired
    private Self field;

    @Autowired
    private Other other;

    @Autowired
    public Self(Self self, Helper helper) {
    }
}`)
	g, err := newProcessor(t, 1).Analyze(context.Background(), []model.SourceFile{{Path: "p/Self.java", Source: src}})
	require.NoError(t, err)

	assert.Equal(t, []graph.Edge{
		{Source: "Self", Target: "Self", Kind: graph.EdgeAutowired, Label: graph.LabelAutowired},
		{Source: "Self", Target: "Other", Kind: graph.EdgeAutowired, Label: graph.LabelAutowired},
		{Source: "Self", Target: "Self", Kind: graph.EdgeAutowired, Label: graph.LabelAutowiredCtor},
		{Source: "Self", Target: "Helper", Kind: graph.EdgeAutowired, Label: graph.LabelAutowiredCtor},
	}, g.Edges())

	self, ok := g.Node("Self")
	require.True(t, ok)
	assert.Equal(t, model.TagService, self.Tag)
}

func TestFileProcessor_CachedWarnings(t *testing.T) {
	src := []byte(`package p;

@Service
@ComponentScan({"a", "b")
public class Odd {
}`)
	files := []model.SourceFile{
		{Path: "first/Odd.java", Source: src},
		{Path: "second/Odd.java", Source: src},
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	_, err := newProcessor(t, 1, processor.WithLogger(logger)).ProcessFiles(context.Background(), files)
	require.NoError(t, err)

	var first, second int
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		switch {
		case strings.Contains(line, "path=second/Odd.java"):
			second++
			assert.NotContains(t, line, "first/Odd.java", "a reused result must not name the other file")
		case strings.Contains(line, "path=first/Odd.java"):
			first++
			assert.NotContains(t, line, "second/Odd.java")
		}
	}
	assert.Positive(t, first)
	assert.Equal(t, first, second, "the cached file reports the same warnings")
}
