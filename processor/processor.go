package processor

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"github.com/CodMac/go-spring-visualizer/collector"
	"github.com/CodMac/go-spring-visualizer/extractor"
	"github.com/CodMac/go-spring-visualizer/graph"
	"github.com/CodMac/go-spring-visualizer/model"
	"github.com/CodMac/go-spring-visualizer/parser"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

const defaultCacheSize = 4096

// fileResult 是单个文件的分析结果，只由文件内容和包名决定
type fileResult struct {
	pkg      string
	entities []model.Entity
	warnings []string
}

// FileProcessor 负责并发分析文件列表，并按路径顺序汇总实体批次。
type FileProcessor struct {
	Language model.Language
	Workers  int // 并发协程数量

	logger *slog.Logger
	cache  *lru.Cache[[sha256.Size]byte, *fileResult]
}

type Option func(*FileProcessor)

func WithLogger(logger *slog.Logger) Option {
	return func(fp *FileProcessor) { fp.logger = logger }
}

// WithCacheSize 设置按内容哈希缓存的文件结果数量，<= 0 表示关闭缓存
func WithCacheSize(size int) Option {
	return func(fp *FileProcessor) {
		if size <= 0 {
			fp.cache = nil
			return
		}
		fp.cache, _ = lru.New[[sha256.Size]byte, *fileResult](size)
	}
}

// NewFileProcessor 创建 FileProcessor 实例
func NewFileProcessor(lang model.Language, workers int, opts ...Option) (*FileProcessor, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if _, err := collector.GetCollector(lang); err != nil {
		return nil, err
	}
	if _, err := extractor.GetExtractor(lang); err != nil {
		return nil, err
	}

	cache, err := lru.New[[sha256.Size]byte, *fileResult](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	fp := &FileProcessor{
		Language: lang,
		Workers:  workers,
		logger:   slog.Default(),
		cache:    cache,
	}
	for _, opt := range opts {
		opt(fp)
	}
	return fp, nil
}

// Analyze 分析全部文件并装配成图
func (fp *FileProcessor) Analyze(ctx context.Context, files []model.SourceFile) (*graph.Graph, error) {
	batches, err := fp.ProcessFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	return graph.Build(batches), nil
}

// ProcessFiles 并发执行 扫描 -> 注解解析 -> 分类，返回按文件路径排序的实体批次。
// 单个文件的失败只记录警告，不会中断其它文件；只有 ctx 取消会返回错误。
func (fp *FileProcessor) ProcessFiles(ctx context.Context, files []model.SourceFile) ([]model.FileEntities, error) {
	if len(files) == 0 {
		return nil, nil
	}

	sorted := slices.Clone(files)
	slices.SortStableFunc(sorted, func(a, b model.SourceFile) int {
		return strings.Compare(a.Path, b.Path)
	})

	// 每个 worker 持有自己的 parser
	workers := min(fp.Workers, len(sorted))
	parsers := make(chan parser.Parser, workers)
	defer func() {
		close(parsers)
		for p := range parsers {
			p.Close()
		}
	}()
	for i := 0; i < workers; i++ {
		p, err := parser.NewParser(fp.Language)
		if err != nil {
			return nil, fmt.Errorf("failed to create parser: %w", err)
		}
		parsers <- p
	}

	results := make([]model.FileEntities, len(sorted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range sorted {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := <-parsers
			defer func() { parsers <- p }()

			results[i] = fp.processFile(p, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}
	return results, nil
}

func (fp *FileProcessor) processFile(p parser.Parser, file model.SourceFile) model.FileEntities {
	out := model.FileEntities{Path: file.Path, Package: file.Package}

	key := cacheKey(file)
	res, hit := fp.lookup(key)
	if !hit {
		var err error
		res, err = fp.analyze(p, file)
		if err != nil {
			fp.logger.Warn("skipping file", "path", file.Path, "error", err)
			return out
		}
		if fp.cache != nil {
			fp.cache.Add(key, res)
		}
	}

	for _, w := range res.warnings {
		fp.logger.Warn(w, "path", file.Path)
	}
	if out.Package == "" {
		out.Package = res.pkg
	}
	out.Entities = relocate(res.entities, file.Path)
	return out
}

// cacheKey 覆盖内容和调用方提供的包名，二者共同决定分析结果
func cacheKey(file model.SourceFile) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(file.Package))
	h.Write([]byte{0})
	h.Write(file.Source)
	var key [sha256.Size]byte
	copy(key[:], h.Sum(nil))
	return key
}

func (fp *FileProcessor) lookup(key [sha256.Size]byte) (*fileResult, bool) {
	if fp.cache == nil {
		return nil, false
	}
	return fp.cache.Get(key)
}

func (fp *FileProcessor) analyze(p parser.Parser, file model.SourceFile) (*fileResult, error) {
	tree, err := p.ParseSource(file.Path, file.Source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	coll, err := collector.GetCollector(fp.Language)
	if err != nil {
		return nil, err
	}
	fCtx, err := coll.CollectDeclarations(tree.RootNode(), file.Path, file.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to collect declarations: %w", err)
	}
	if file.Package != "" {
		fCtx.PackageName = file.Package
	}

	ext, err := extractor.GetExtractor(fp.Language)
	if err != nil {
		return nil, err
	}
	entities, err := ext.Extract(fCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract entities: %w", err)
	}

	fp.logger.Debug("file analyzed", "path", file.Path,
		"declarations", len(fCtx.Declarations), "entities", len(entities))
	return &fileResult{pkg: fCtx.PackageName, entities: entities, warnings: fCtx.Warnings}, nil
}

// relocate 复制实体并把位置指向当前文件，缓存中的结果可能来自内容相同的其它文件
func relocate(entities []model.Entity, path string) []model.Entity {
	out := make([]model.Entity, len(entities))
	for i, e := range entities {
		if e.Location != nil && e.Location.FilePath != path {
			loc := *e.Location
			loc.FilePath = path
			e.Location = &loc
		}
		out[i] = e
	}
	return out
}
