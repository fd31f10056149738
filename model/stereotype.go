package model

// Stereotype 是类级别的角色标记
type Stereotype string

const (
	StereotypeApplication   Stereotype = "SpringBootApplication"
	StereotypeConfiguration Stereotype = "Configuration"
	StereotypeController    Stereotype = "Controller"
	StereotypeService       Stereotype = "Service"
	StereotypeRepository    Stereotype = "Repository"
	StereotypeComponent     Stereotype = "Component"
)

// Stereotypes 按优先级从高到低排列
var Stereotypes = []Stereotype{
	StereotypeApplication,
	StereotypeController,
	StereotypeService,
	StereotypeRepository,
	StereotypeConfiguration,
	StereotypeComponent,
}

// Rank 返回优先级，数值越小越优先；未知类型返回 len(Stereotypes)
func (s Stereotype) Rank() int {
	for i, st := range Stereotypes {
		if st == s {
			return i
		}
	}
	return len(Stereotypes)
}

// Outranks 判断 s 是否比 other 更具体
func (s Stereotype) Outranks(other Stereotype) bool {
	return s.Rank() < other.Rank()
}

// StereotypeOf 将注解种类映射到 Stereotype
func StereotypeOf(kind AnnotationKind) (Stereotype, bool) {
	switch kind {
	case KindSpringBootApplication:
		return StereotypeApplication, true
	case KindConfiguration:
		return StereotypeConfiguration, true
	case KindController:
		return StereotypeController, true
	case KindService:
		return StereotypeService, true
	case KindRepository:
		return StereotypeRepository, true
	case KindComponent:
		return StereotypeComponent, true
	}
	return "", false
}

// ResolveStereotype 在一组注解中选出优先级最高的 Stereotype
func ResolveStereotype(annotations []Annotation) (Stereotype, bool) {
	var best Stereotype
	found := false
	for _, a := range annotations {
		st, ok := StereotypeOf(a.Kind())
		if !ok {
			continue
		}
		if !found || st.Outranks(best) {
			best, found = st, true
		}
	}
	return best, found
}

// --- 节点标签 (Node Tags) ---

// Tag 是节点的分类，决定渲染颜色
type Tag string

const (
	TagApplication   = Tag(StereotypeApplication)
	TagConfiguration = Tag(StereotypeConfiguration)
	TagController    = Tag(StereotypeController)
	TagService       = Tag(StereotypeService)
	TagRepository    = Tag(StereotypeRepository)
	TagComponent     = Tag(StereotypeComponent)

	TagBean       Tag = "Bean"       // 由 @Bean 工厂方法产出的类型
	TagPlain      Tag = "Plain"      // 源码中声明过但没有 stereotype
	TagUnresolved Tag = "Unresolved" // 被引用但从未声明的占位节点
)

var tagColors = map[Tag]string{
	TagApplication:   "#2c9162",
	TagConfiguration: "#28a9e0",
	TagController:    "#7050bf",
	TagService:       "#a81347",
	TagRepository:    "#e06907",
	TagComponent:     "#ffc400",
	TagBean:          "#6b1d1d",
	TagPlain:         "#ffffff",
	TagUnresolved:    "#d9d9d9",
}

// TagOf 返回 Stereotype 对应的标签
func TagOf(s Stereotype) Tag { return Tag(s) }

// Color 返回标签的固定颜色
func (t Tag) Color() string {
	if c, ok := tagColors[t]; ok {
		return c
	}
	return tagColors[TagUnresolved]
}

// Stereotype 返回标签对应的 Stereotype (bean/plain/unresolved 返回 false)
func (t Tag) Stereotype() (Stereotype, bool) {
	s := Stereotype(t)
	if s.Rank() < len(Stereotypes) {
		return s, true
	}
	return "", false
}

// IsResolved 表示节点是否有真实声明
func (t Tag) IsResolved() bool {
	return t != TagUnresolved
}
