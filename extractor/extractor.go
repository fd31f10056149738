package extractor

import (
	"fmt"

	"github.com/CodMac/go-spring-visualizer/core"
	"github.com/CodMac/go-spring-visualizer/model"
)

// Extractor 即实体分类器：把单个文件的声明映射为带类型的实体。
// 不做跨文件解析，目标类只以简单名称表示。
type Extractor interface {
	Extract(fc *core.FileContext) ([]model.Entity, error)
}

var extractorMap = make(map[model.Language]Extractor)

// RegisterExtractor 注册一个语言与其对应的 Extractor。
func RegisterExtractor(lang model.Language, extractor Extractor) {
	extractorMap[lang] = extractor
}

// GetExtractor 根据语言类型获取对应的 Extractor 实例。
func GetExtractor(lang model.Language) (Extractor, error) {
	extractor, ok := extractorMap[lang]
	if !ok {
		return nil, fmt.Errorf("no extractor registered for language: %s", lang)
	}
	return extractor, nil
}
