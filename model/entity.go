package model

// --- 实体类型 (Entity Kinds) ---

// EntityKind 是分类器产出的实体类型
type EntityKind string

const (
	EntityConfiguration EntityKind = "CONFIGURATION"  // Configuration: 类带 @Configuration
	EntityComponent     EntityKind = "COMPONENT"      // Component: 类带 stereotype 注解
	EntityImport        EntityKind = "IMPORT"         // Import: @Import(Target.class)
	EntityComponentScan EntityKind = "COMPONENT_SCAN" // ComponentScan: @ComponentScan("pkg")
	EntityBean          EntityKind = "BEAN"           // Bean: @Bean 方法，Source 产出 Target
	EntityAutowired     EntityKind = "AUTOWIRED"      // Autowired: Source 依赖 Target
)

// InjectionKind 描述 Autowired 依赖的来源
type InjectionKind string

const (
	InjectField         InjectionKind = "FIELD"
	InjectConstructor   InjectionKind = "CONSTRUCTOR"
	InjectMethod        InjectionKind = "METHOD"
	InjectBeanParameter InjectionKind = "BEAN_PARAMETER" // @Bean 方法参数，Source 是产出的 bean 类型
)

// IsConstructorStyle 表示依赖是否按构造注入的方式提供
func (k InjectionKind) IsConstructorStyle() bool {
	return k == InjectConstructor || k == InjectBeanParameter
}

// Entity 是分类器的输出，所有类名都是简单名称
type Entity struct {
	Kind EntityKind `json:"Kind"`

	// Source 是关系发起方；Configuration/Component 时为类自身
	Source string `json:"Source"`

	// Target 是目标类 (Import/Bean/Autowired) 或包前缀 (ComponentScan)
	Target string `json:"Target,omitempty"`

	Stereotype Stereotype    `json:"Stereotype,omitempty"` // 仅 Component/Configuration
	Injection  InjectionKind `json:"Injection,omitempty"`  // 仅 Autowired
	Name       string        `json:"Name,omitempty"`       // Bean 名称或注入点名称
	Location   *Location     `json:"Location,omitempty"`
}

// FileEntities 是单个文件的分类结果，作为装配器的输入批次
type FileEntities struct {
	Path     string   `json:"Path"`
	Package  string   `json:"Package"`
	Entities []Entity `json:"Entities"`
}
