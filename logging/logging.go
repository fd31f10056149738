package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel 是控制日志级别的环境变量
const EnvLevel = "SPRINGVIZ_LOG"

// LevelOff 高于所有级别，关闭全部日志
const LevelOff = slog.Level(12)

// DefaultLevel 输出按文件的解析警告
const DefaultLevel = slog.LevelWarn

// ParseLevel 支持 debug|info|warn|error|off，空串返回默认级别
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultLevel, nil
	case "debug", "trace":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "off", "none", "quiet":
		return LevelOff, nil
	}
	return DefaultLevel, fmt.Errorf("unknown log level %q", s)
}

// New 创建写到 w 的文本日志
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup 创建写到 w 的日志并设为默认 logger，w 为 nil 时写到 stderr
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := New(w, level)
	slog.SetDefault(logger)
	return logger
}
