package source

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CodMac/go-spring-visualizer/model"
)

// ErrRootNotFound 表示扫描根路径不存在或不可读
var ErrRootNotFound = errors.New("root path not found")

// DefaultIgnoreDirs 是默认跳过的 VCS、构建输出和依赖目录；以 '.' 开头的目录总是跳过
var DefaultIgnoreDirs = []string{"target", "build", "out", "bin", "node_modules", "vendor"}

// Discover 递归查找 root 下该语言的源文件并读取内容。
// 路径相对于 root 并使用 '/' 分隔；Package 留空，由扫描器从源码中补全。
// 单个文件读取失败只记录警告。
func Discover(root string, lang model.Language, ignoreDirs ...string) ([]model.SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootNotFound, root, err)
	}

	ext := lang.FileExtension()
	if ext == "" {
		return nil, fmt.Errorf("no file extension known for language: %s", lang)
	}

	if !info.IsDir() {
		content, err := os.ReadFile(root)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRootNotFound, root, err)
		}
		return []model.SourceFile{{Path: filepath.ToSlash(filepath.Base(root)), Source: content}}, nil
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootNotFound, root, err)
	}

	ignore := make(map[string]bool)
	for _, dirs := range [][]string{DefaultIgnoreDirs, ignoreDirs} {
		for _, d := range dirs {
			ignore[d] = true
		}
	}

	var files []model.SourceFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		// 忽略隐藏目录和依赖目录
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || ignore[d.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ext {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable file", "path", path, "error", err)
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		files = append(files, model.SourceFile{Path: filepath.ToSlash(rel), Source: content})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}
