package core

import (
	"iter"
	"strings"
	"sync"

	"github.com/CodMac/go-spring-visualizer/model"
)

type ImportEntry struct {
	RawImportPath string          `json:"RawImportPath"`
	Alias         string          `json:"Alias"`
	IsStatic      bool            `json:"IsStatic"`
	IsWildcard    bool            `json:"IsWildcard"`
	Location      *model.Location `json:"Location,omitempty"`
}

// FileContext 存储单个文件的扫描结果，不持有 AST，解析树关闭后仍可使用
type FileContext struct {
	FilePath     string
	PackageName  string
	Imports      map[string]*ImportEntry
	Declarations []model.Declaration
	Warnings     []string
	mutex        sync.RWMutex
}

func NewFileContext(filePath string) *FileContext {
	return &FileContext{
		FilePath: filePath,
		Imports:  make(map[string]*ImportEntry),
	}
}

func (fc *FileContext) AddDeclaration(decl model.Declaration) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.Declarations = append(fc.Declarations, decl)
}

func (fc *FileContext) AddImport(imp *ImportEntry) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	key := imp.Alias
	if imp.IsWildcard {
		key = imp.RawImportPath
	}
	fc.Imports[key] = imp
}

func (fc *FileContext) AddWarning(msg string) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.Warnings = append(fc.Warnings, msg)
}

// All 按源码顺序遍历声明，可重复调用
func (fc *FileContext) All() iter.Seq[model.Declaration] {
	return func(yield func(model.Declaration) bool) {
		fc.mutex.RLock()
		decls := fc.Declarations
		fc.mutex.RUnlock()
		for _, d := range decls {
			if !yield(d) {
				return
			}
		}
	}
}

// QualifiedName 把简单类名还原为全限定名：精确导入 > 同包
func (fc *FileContext) QualifiedName(simple string) string {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()

	if imp, ok := fc.Imports[simple]; ok && !imp.IsWildcard {
		return imp.RawImportPath
	}
	if strings.Contains(simple, ".") || fc.PackageName == "" {
		return simple
	}
	return fc.PackageName + "." + simple
}
