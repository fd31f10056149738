package model

// DeclKind 是声明点的类型
type DeclKind string

const (
	DeclClass          DeclKind = "CLASS"           // 类、接口、枚举、记录
	DeclField          DeclKind = "FIELD"           // 成员字段
	DeclConstructor    DeclKind = "CONSTRUCTOR"     // 构造函数 (参数见 Params)
	DeclConstructorArg DeclKind = "CONSTRUCTOR_ARG" // 构造函数参数
	DeclMethod         DeclKind = "METHOD"          // 方法 (带 @Bean 即为 bean 工厂方法)
	DeclMethodArg      DeclKind = "METHOD_ARG"      // 方法参数
)

// Declaration 是扫描器产出的一个声明点及其前置注解
type Declaration struct {
	Kind DeclKind `json:"Kind"`

	// Class 是外层类的简单名称；对 DeclClass 来说就是类自身
	Class string `json:"Class"`

	// Name 是字段/参数/方法名；对 DeclClass 为类名
	Name string `json:"Name"`

	// Type 是字段/参数的声明类型或方法的返回类型，已规约为简单类名
	Type string `json:"Type,omitempty"`

	// RawType 是源码中的原始类型文本 (e.g., "List<Foo>")
	RawType string `json:"RawType,omitempty"`

	Annotations []Annotation  `json:"Annotations,omitempty"`
	Params      []Declaration `json:"Params,omitempty"` // 仅构造函数和方法使用
	Location    *Location     `json:"Location,omitempty"`
}

// Has 判断声明上是否带有指定种类的注解
func (d Declaration) Has(kind AnnotationKind) bool {
	return HasKind(d.Annotations, kind)
}

// Find 返回第一个指定种类的注解
func (d Declaration) Find(kind AnnotationKind) (Annotation, bool) {
	for _, a := range d.Annotations {
		if a.Kind() == kind {
			return a, true
		}
	}
	return Annotation{}, false
}

// IsBeanMethod 判断是否为 bean 工厂方法
func (d Declaration) IsBeanMethod() bool {
	return d.Kind == DeclMethod && d.Has(KindBean)
}
