package collector

import (
	"fmt"

	"github.com/CodMac/go-spring-visualizer/core"
	"github.com/CodMac/go-spring-visualizer/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Collector 即声明扫描器：遍历单个文件的 AST，收集声明点及其注解。
type Collector interface {
	// CollectDeclarations 负责遍历 AST，建立并返回该文件的 FileContext。
	// 语法错误区域被跳过并记录在 FileContext.Warnings 中，不会返回错误。
	CollectDeclarations(rootNode *sitter.Node, filePath string, sourceBytes []byte) (*core.FileContext, error)
}

var collectorMap = make(map[model.Language]Collector)

// RegisterCollector 注册一个语言与其对应的 Collector
func RegisterCollector(lang model.Language, collector Collector) {
	collectorMap[lang] = collector
}

// GetCollector 根据语言类型获取对应的 Collector 实例。
func GetCollector(lang model.Language) (Collector, error) {
	collector, ok := collectorMap[lang]
	if !ok {
		return nil, fmt.Errorf("no collector registered for language: %s", lang)
	}

	return collector, nil
}
