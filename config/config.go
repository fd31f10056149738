package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/CodMac/go-spring-visualizer/logging"
	"github.com/CodMac/go-spring-visualizer/output"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrUsage 表示命令行参数不合法
var ErrUsage = errors.New("invalid usage")

// 环境变量
const (
	EnvFeatures = "SPRINGVIZ_FEATURES"
	EnvWorkers  = "SPRINGVIZ_WORKERS"
)

// 输出格式
const (
	FormatDOT     = "dot"
	FormatJSONL   = "jsonl"
	FormatMermaid = "mermaid"
)

// Config 按 默认值 -> 配置文件 -> 环境变量 -> 命令行 的顺序叠加
type Config struct {
	Root       string   `yaml:"root"`
	Features   []string `yaml:"features"`
	Format     string   `yaml:"format"`
	Workers    int      `yaml:"workers"`
	CacheSize  int      `yaml:"cacheSize"`
	LogLevel   string   `yaml:"logLevel"`
	IgnoreDirs []string `yaml:"ignoreDirs"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Features:  strings.Split(output.DefaultFeatures().String(), ","),
		Format:    FormatDOT,
		Workers:   runtime.NumCPU(),
		CacheSize: 4096,
	}
}

// LoadFile 读取 YAML 配置文件，文件中出现的字段覆盖当前值
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing YAML config: %w", err)
	}
	c.merge(&loaded)
	return nil
}

func (c *Config) merge(loaded *Config) {
	if loaded.Root != "" {
		c.Root = loaded.Root
	}
	if len(loaded.Features) > 0 {
		c.Features = loaded.Features
	}
	if loaded.Format != "" {
		c.Format = loaded.Format
	}
	if loaded.Workers > 0 {
		c.Workers = loaded.Workers
	}
	if loaded.CacheSize != 0 {
		c.CacheSize = loaded.CacheSize
	}
	if loaded.LogLevel != "" {
		c.LogLevel = loaded.LogLevel
	}
	if len(loaded.IgnoreDirs) > 0 {
		c.IgnoreDirs = append(c.IgnoreDirs, loaded.IgnoreDirs...)
	}
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(logging.EnvLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFeatures)); v != "" {
		c.Features = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrUsage, EnvWorkers, v)
		}
		c.Workers = n
	}
	return nil
}

// Load 解析命令行：springviz [flags] <root>。
// 当前目录下的 .env 文件会先被加载到环境变量中。
func Load(args []string, stderr io.Writer) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("springviz", flag.ContinueOnError)
	fs.SetOutput(stderr)
	features := fs.String("features", "", "逗号分隔的关系种类: "+output.Features(output.AllFeatures).String()+" (默认 "+output.DefaultFeatures().String()+")")
	format := fs.String("format", "", "输出格式: dot, jsonl, mermaid (默认 dot)")
	workers := fs.Int("workers", 0, "并发处理文件的协程数量 (默认 CPU 核心数)")
	configPath := fs.String("config", "", "YAML 配置文件路径")
	logLevel := fs.String("log-level", "", "日志级别: debug, info, warn, error, off (默认取 "+logging.EnvLevel+")")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: springviz [flags] <root>\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cfg := Default()
	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// 仅显式给出的参数覆盖前面的配置
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "features":
			cfg.Features = splitList(*features)
		case "format":
			cfg.Format = *format
		case "workers":
			cfg.Workers = *workers
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.Root = fs.Arg(0)
	default:
		return nil, fmt.Errorf("%w: expected one root path, got %d", ErrUsage, fs.NArg())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置是否完整合法
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("%w: missing root path", ErrUsage)
	}
	switch c.Format {
	case FormatDOT, FormatJSONL, FormatMermaid:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrUsage, c.Format)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrUsage)
	}
	if _, err := c.FeatureSet(); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// FeatureSet 把配置中的特性名称解析为渲染特性集合
func (c *Config) FeatureSet() (output.Features, error) {
	return output.ParseFeatures(strings.Join(c.Features, ","))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
