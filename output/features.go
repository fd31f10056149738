package output

import (
	"fmt"
	"slices"
	"strings"
)

// Feature 是可选渲染的关系种类
type Feature string

const (
	FeatureImport        Feature = "import"
	FeatureComponentScan Feature = "componentscan"
	FeatureAutowired     Feature = "autowired"
	FeatureBean          Feature = "bean"
)

// AllFeatures 是所有已知特性，按渲染顺序排列
var AllFeatures = []Feature{FeatureImport, FeatureComponentScan, FeatureAutowired, FeatureBean}

// Features 是启用的特性集合
type Features []Feature

// DefaultFeatures 不包含 componentscan，扫描关系需显式开启
func DefaultFeatures() Features {
	return Features{FeatureImport, FeatureAutowired, FeatureBean}
}

// ParseFeatures 解析逗号分隔的特性列表 (e.g., "import,bean")
func ParseFeatures(s string) (Features, error) {
	var fs Features
	for _, part := range strings.Split(s, ",") {
		name := Feature(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}
		if !slices.Contains(AllFeatures, name) {
			return nil, fmt.Errorf("unknown feature %q (known: %s)", name, Features(AllFeatures))
		}
		if !fs.Has(name) {
			fs = append(fs, name)
		}
	}
	if len(fs) == 0 {
		return nil, fmt.Errorf("no features given")
	}
	return fs, nil
}

func (fs Features) Has(f Feature) bool {
	return slices.Contains(fs, f)
}

func (fs Features) String() string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}
