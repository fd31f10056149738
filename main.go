package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/CodMac/go-spring-visualizer/config"
	"github.com/CodMac/go-spring-visualizer/graph"
	"github.com/CodMac/go-spring-visualizer/logging"
	"github.com/CodMac/go-spring-visualizer/model"
	"github.com/CodMac/go-spring-visualizer/output"
	"github.com/CodMac/go-spring-visualizer/processor"
	"github.com/CodMac/go-spring-visualizer/source"

	// 导入语言实现，触发其 init() 注册 Language、Collector 和 Extractor
	_ "github.com/CodMac/go-spring-visualizer/x/java"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run 返回进程退出码；单个文件的解析失败不影响退出码
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// 1. 解析配置
	cfg, err := config.Load(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.Setup(stderr, level)
	features, _ := cfg.FeatureSet()

	// 2. 查找所有要分析的文件
	files, err := source.Discover(cfg.Root, model.LangJava, cfg.IgnoreDirs...)
	if err != nil {
		logger.Error("failed to discover source files", "root", cfg.Root, "error", err)
		return 1
	}
	if len(files) == 0 {
		logger.Warn("no source files found", "root", cfg.Root)
	}
	logger.Info("starting analysis", "files", len(files), "workers", cfg.Workers, "features", features.String())

	// 3. 启动处理器
	proc, err := processor.NewFileProcessor(model.LangJava, cfg.Workers,
		processor.WithLogger(logger), processor.WithCacheSize(cfg.CacheSize))
	if err != nil {
		logger.Error("failed to create processor", "error", err)
		return 1
	}
	g, err := proc.Analyze(ctx, files)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		return 1
	}
	for _, n := range g.Uncovered() {
		logger.Warn("component is not covered by any component scan", "class", n.Name, "package", n.Package)
	}
	logger.Info("analysis complete", "nodes", len(g.Nodes()), "edges", len(g.Edges()), "scans", len(g.Scans()))

	// 4. 输出结果
	if err := write(stdout, cfg.Format, g, features); err != nil {
		logger.Error("failed to write output", "error", err)
		return 1
	}
	return 0
}

func write(w io.Writer, format string, g *graph.Graph, features output.Features) error {
	bw := bufio.NewWriter(w)
	var err error
	switch format {
	case config.FormatJSONL:
		_, err = output.ExportGraph(bw, g)
	case config.FormatMermaid:
		err = output.ExportMermaidHTML(bw, g, features)
	default:
		err = output.NewDOTWriter(bw, features).Write(g)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}
