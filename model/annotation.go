package model

import "strings"

// --- 注解参数值 (Annotation Values) ---

// ValueKind 是注解参数值的类型
type ValueKind string

const (
	ValueString ValueKind = "STRING" // 字符串字面量，表示包名等
	ValueClass  ValueKind = "CLASS"  // 类型引用 (Foo 或 Foo.class)，表示边的目标类
	ValueList   ValueKind = "LIST"   // 花括号数组 {a, b}
	ValueOpaque ValueKind = "OPAQUE" // 数字、布尔、表达式、嵌套注解等，不参与分类
)

// Value 是注解参数的一个取值
type Value struct {
	Kind  ValueKind `json:"Kind"`
	Text  string    `json:"Text,omitempty"`  // STRING: 去掉引号的内容; CLASS: 类型名 (不含 .class); OPAQUE: 原文
	Items []Value   `json:"Items,omitempty"` // 仅 LIST 使用
}

func StringValue(s string) Value { return Value{Kind: ValueString, Text: s} }

func ClassValue(name string) Value { return Value{Kind: ValueClass, Text: name} }

func ListValue(items ...Value) Value { return Value{Kind: ValueList, Items: items} }

func OpaqueValue(raw string) Value { return Value{Kind: ValueOpaque, Text: raw} }

// Flatten 将单值与数组统一展开为列表
func (v Value) Flatten() []Value {
	if v.Kind != ValueList {
		return []Value{v}
	}
	var out []Value
	for _, item := range v.Items {
		out = append(out, item.Flatten()...)
	}
	return out
}

// Strings 返回展开后所有字符串字面量
func (v Value) Strings() []string {
	var out []string
	for _, item := range v.Flatten() {
		if item.Kind == ValueString {
			out = append(out, item.Text)
		}
	}
	return out
}

// Classes 返回展开后所有类型引用
func (v Value) Classes() []string {
	var out []string
	for _, item := range v.Flatten() {
		if item.Kind == ValueClass {
			out = append(out, item.Text)
		}
	}
	return out
}

// --- 注解 (Annotation) ---

// DefaultArgKey 是单值写法 @X(v) 对应的键
const DefaultArgKey = "value"

// AnnotationArg 是一个有序的注解参数
type AnnotationArg struct {
	Key   string `json:"Key"`
	Value Value  `json:"Value"`
}

// Annotation 是解析后的注解
type Annotation struct {
	Name          string          `json:"Name"`          // 简单名称 (e.g., "Service")
	QualifiedName string          `json:"QualifiedName"` // 源码中的写法 (e.g., "org.springframework.stereotype.Service")
	Args          []AnnotationArg `json:"Args,omitempty"`
}

// Arg 按键查找参数
func (a Annotation) Arg(key string) (Value, bool) {
	for _, arg := range a.Args {
		if arg.Key == key {
			return arg.Value, true
		}
	}
	return Value{}, false
}

// Value 返回 value 参数
func (a Annotation) Value() (Value, bool) {
	return a.Arg(DefaultArgKey)
}

// HasArgs 表示注解是否带参数
func (a Annotation) HasArgs() bool {
	return len(a.Args) > 0
}

// --- 注解种类 (Annotation Kinds) ---

// AnnotationKind 是工具能识别的注解的封闭枚举，其余均为 Opaque
type AnnotationKind string

const (
	KindConfiguration         AnnotationKind = "CONFIGURATION"
	KindSpringBootApplication AnnotationKind = "SPRING_BOOT_APPLICATION"
	KindComponent             AnnotationKind = "COMPONENT"
	KindService               AnnotationKind = "SERVICE"
	KindRepository            AnnotationKind = "REPOSITORY"
	KindController            AnnotationKind = "CONTROLLER"
	KindImport                AnnotationKind = "IMPORT"
	KindComponentScan         AnnotationKind = "COMPONENT_SCAN"
	KindBean                  AnnotationKind = "BEAN"
	KindAutowired             AnnotationKind = "AUTOWIRED"
	KindOpaque                AnnotationKind = "OPAQUE"
)

var annotationKinds = map[string]AnnotationKind{
	"Configuration":         KindConfiguration,
	"SpringBootApplication": KindSpringBootApplication,
	"Component":             KindComponent,
	"Service":               KindService,
	"Repository":            KindRepository,
	"Controller":            KindController,
	"RestController":        KindController,
	"Import":                KindImport,
	"ComponentScan":         KindComponentScan,
	"Bean":                  KindBean,
	"Autowired":             KindAutowired,
}

// Kind 将注解名映射到已知种类
func (a Annotation) Kind() AnnotationKind {
	name := a.Name
	if name == "" {
		name = a.QualifiedName
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if k, ok := annotationKinds[name]; ok {
		return k
	}
	return KindOpaque
}

// HasKind 判断注解列表中是否存在指定种类
func HasKind(annotations []Annotation, kind AnnotationKind) bool {
	for _, a := range annotations {
		if a.Kind() == kind {
			return true
		}
	}
	return false
}
