package java

import (
	"fmt"
	"strings"

	"github.com/CodMac/go-spring-visualizer/core"
	"github.com/CodMac/go-spring-visualizer/model"
	"github.com/CodMac/go-spring-visualizer/noisefilter"
)

// Extractor 实现了 extractor.Extractor 接口
type Extractor struct {
	noise noisefilter.NoiseFilter
}

// NewJavaExtractor 使用已注册的 Java NoiseFilter
func NewJavaExtractor() *Extractor {
	return &Extractor{noise: noisefilter.GetNoiseFilter(model.LangJava)}
}

// Extract 按声明顺序把一个文件的声明映射为实体
func (e *Extractor) Extract(fc *core.FileContext) ([]model.Entity, error) {
	if fc == nil {
		return nil, fmt.Errorf("nil file context")
	}

	var entities []model.Entity
	for decl := range fc.All() {
		switch decl.Kind {
		case model.DeclClass:
			entities = append(entities, e.classEntities(fc, decl)...)
		case model.DeclField:
			if decl.Has(model.KindAutowired) {
				if ent, ok := e.dependency(fc, decl.Class, decl, model.InjectField); ok {
					entities = append(entities, ent)
				}
			}
		case model.DeclConstructor:
			entities = append(entities, e.injectedParams(fc, decl, model.InjectConstructor)...)
		case model.DeclMethod:
			if decl.IsBeanMethod() {
				entities = append(entities, e.beanEntities(fc, decl)...)
				continue
			}
			entities = append(entities, e.injectedParams(fc, decl, model.InjectMethod)...)
		}
	}
	return entities, nil
}

func (e *Extractor) classEntities(fc *core.FileContext, decl model.Declaration) []model.Entity {
	var out []model.Entity
	class := decl.Class

	// 1. Configuration
	if decl.Has(model.KindConfiguration) {
		out = append(out, model.Entity{
			Kind:       model.EntityConfiguration,
			Source:     class,
			Stereotype: model.StereotypeConfiguration,
			Location:   decl.Location,
		})
	}

	// 2. Component (仅当存在 @Configuration 以外的 stereotype 注解)
	if hasComponentAnnotation(decl.Annotations) {
		st, _ := model.ResolveStereotype(decl.Annotations)
		out = append(out, model.Entity{
			Kind:       model.EntityComponent,
			Source:     class,
			Stereotype: st,
			Location:   decl.Location,
		})
	}

	// 3. Import & ComponentScan
	for _, anno := range decl.Annotations {
		switch anno.Kind() {
		case model.KindImport:
			for _, target := range importTargets(anno) {
				out = append(out, model.Entity{
					Kind:     model.EntityImport,
					Source:   class,
					Target:   target,
					Location: decl.Location,
				})
			}
		case model.KindComponentScan:
			out = append(out, e.scanEntities(fc, decl, anno, "value", "basePackages")...)
		case model.KindSpringBootApplication:
			out = append(out, e.scanEntities(fc, decl, anno, "scanBasePackages")...)
		}
	}
	return out
}

func hasComponentAnnotation(annos []model.Annotation) bool {
	for _, a := range annos {
		st, ok := model.StereotypeOf(a.Kind())
		if ok && st != model.StereotypeConfiguration {
			return true
		}
	}
	return false
}

// importTargets 支持 @Import(A.class)、@Import({A.class, B.class}) 和 value = ...
func importTargets(anno model.Annotation) []string {
	v, ok := anno.Value()
	if !ok {
		return nil
	}
	var targets []string
	for _, c := range v.Classes() {
		if name := SimpleTypeName(c); name != "" {
			targets = append(targets, name)
		}
	}
	return targets
}

// scanEntities 为每个扫描包产出一个 ComponentScan 实体；
// 未指定任何包时扫描类所在的包。basePackageClasses 取引用类所在的包。
func (e *Extractor) scanEntities(fc *core.FileContext, decl model.Declaration, anno model.Annotation, keys ...string) []model.Entity {
	var packages []string
	for _, key := range keys {
		if v, ok := anno.Arg(key); ok {
			packages = append(packages, v.Strings()...)
		}
	}
	if v, ok := anno.Arg("basePackageClasses"); ok {
		for _, c := range v.Classes() {
			if pkg := packageOf(fc, c); pkg != "" {
				packages = append(packages, pkg)
			}
		}
	}
	if len(packages) == 0 && fc.PackageName != "" {
		packages = append(packages, fc.PackageName)
	}

	out := make([]model.Entity, 0, len(packages))
	seen := make(map[string]bool, len(packages))
	for _, pkg := range packages {
		pkg = strings.TrimSpace(pkg)
		if pkg == "" || seen[pkg] {
			continue
		}
		seen[pkg] = true
		out = append(out, model.Entity{
			Kind:     model.EntityComponentScan,
			Source:   decl.Class,
			Target:   pkg,
			Location: decl.Location,
		})
	}
	return out
}

func packageOf(fc *core.FileContext, class string) string {
	if q := QualifierOf(class); q != "" {
		return q
	}
	return QualifierOf(fc.QualifiedName(SimpleTypeName(class)))
}

// beanEntities: 声明类 -> 返回类型 的 Bean 实体，外加每个参数一条以返回类型为源的依赖
func (e *Extractor) beanEntities(fc *core.FileContext, decl model.Declaration) []model.Entity {
	if e.isNoise(fc, decl.Type, decl.RawType) {
		return nil
	}

	anno, _ := decl.Find(model.KindBean)
	out := []model.Entity{{
		Kind:     model.EntityBean,
		Source:   decl.Class,
		Target:   decl.Type,
		Name:     beanName(anno, decl.Name),
		Location: decl.Location,
	}}
	for _, p := range decl.Params {
		if ent, ok := e.dependency(fc, decl.Type, p, model.InjectBeanParameter); ok {
			out = append(out, ent)
		}
	}
	return out
}

// beanName 取 @Bean("n")、name = 或 value = 的第一个字符串，否则为方法名
func beanName(anno model.Annotation, methodName string) string {
	for _, key := range []string{model.DefaultArgKey, "name"} {
		if v, ok := anno.Arg(key); ok {
			if names := v.Strings(); len(names) > 0 && names[0] != "" {
				return names[0]
			}
		}
	}
	return methodName
}

// injectedParams: 构造函数/方法本身带 @Autowired 时所有参数都注入，否则只取带 @Autowired 的参数
func (e *Extractor) injectedParams(fc *core.FileContext, decl model.Declaration, injection model.InjectionKind) []model.Entity {
	all := decl.Has(model.KindAutowired)
	var out []model.Entity
	for _, p := range decl.Params {
		if !all && !p.Has(model.KindAutowired) {
			continue
		}
		if ent, ok := e.dependency(fc, decl.Class, p, injection); ok {
			out = append(out, ent)
		}
	}
	return out
}

func (e *Extractor) dependency(fc *core.FileContext, source string, site model.Declaration, injection model.InjectionKind) (model.Entity, bool) {
	if source == "" || e.isNoise(fc, site.Type, site.RawType) {
		return model.Entity{}, false
	}
	return model.Entity{
		Kind:      model.EntityAutowired,
		Source:    source,
		Target:    site.Type,
		Injection: injection,
		Name:      site.Name,
		Location:  site.Location,
	}, true
}

func (e *Extractor) isNoise(fc *core.FileContext, simple, raw string) bool {
	qualified := TypeName(raw)
	if QualifierOf(raw) == "" && simple != "" {
		qualified = fc.QualifiedName(simple)
	}
	return e.noise.IsNoise(simple, qualified)
}
