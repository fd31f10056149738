package java

import "strings"

type NoiseFilter struct{}

func NewJavaNoiseFilter() *NoiseFilter {
	return &NoiseFilter{}
}

var noiseSimpleNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "void": true, "var": true,
	"Boolean": true, "Byte": true, "Character": true, "Short": true, "Integer": true,
	"Long": true, "Float": true, "Double": true, "Void": true,
	"String": true, "Object": true, "CharSequence": true, "Number": true,
	// 常通过通配导入引入的集合类型
	"Iterable": true, "Collection": true, "List": true, "Set": true, "Map": true, "Optional": true,
}

var noisePrefixes = []string{"java.lang.", "java.util."}

// 并发工具类型 (Executor 等) 常作为 bean 出现，不视为噪音
var keepPrefixes = []string{"java.util.concurrent."}

func (f *NoiseFilter) IsNoise(simpleName, qualifiedName string) bool {
	if simpleName == "" || noiseSimpleNames[simpleName] {
		return true
	}
	for _, p := range keepPrefixes {
		if strings.HasPrefix(qualifiedName, p) {
			return false
		}
	}
	for _, p := range noisePrefixes {
		if strings.HasPrefix(qualifiedName, p) {
			return true
		}
	}
	return false
}
