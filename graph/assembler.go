package graph

import (
	"iter"
	"slices"

	"github.com/CodMac/go-spring-visualizer/model"
)

// Assembler 把各文件的实体批次按给定顺序折叠进同一张图。
// 它是流水线中唯一有状态的部分，不是并发安全的。
type Assembler struct {
	g *Graph
}

func NewAssembler() *Assembler {
	return &Assembler{g: New()}
}

// Build 按顺序装配所有批次
func Build(batches []model.FileEntities) *Graph {
	a := NewAssembler()
	a.AddAll(slices.Values(batches))
	return a.Graph()
}

func (a *Assembler) AddAll(batches iter.Seq[model.FileEntities]) {
	for b := range batches {
		a.Add(b)
	}
}

// Add 应用一个文件的全部实体；实体之间互不依赖，每个实体的节点和边一次性写入
func (a *Assembler) Add(batch model.FileEntities) {
	for _, ent := range batch.Entities {
		a.apply(batch.Package, ent)
	}
}

func (a *Assembler) Graph() *Graph {
	return a.g
}

func (a *Assembler) apply(pkg string, ent model.Entity) {
	if ent.Source == "" {
		return
	}
	switch ent.Kind {
	case model.EntityImport, model.EntityBean, model.EntityAutowired:
		if ent.Target == "" {
			return
		}
	}

	g := a.g
	switch ent.Kind {
	case model.EntityConfiguration, model.EntityComponent:
		src := a.declared(ent.Source, pkg)
		st := ent.Stereotype
		if st == "" {
			st = model.StereotypeComponent
			if ent.Kind == model.EntityConfiguration {
				st = model.StereotypeConfiguration
			}
		}
		mergeStereotype(src, st)

	case model.EntityImport:
		a.declared(ent.Source, pkg)
		g.ensure(ent.Target)
		g.addEdge(Edge{Source: ent.Source, Target: ent.Target, Kind: EdgeImport, Label: LabelImport})

	case model.EntityComponentScan:
		a.declared(ent.Source, pkg)
		g.addScan(ScanDirective{Source: ent.Source, Package: ent.Target})

	case model.EntityBean:
		a.declared(ent.Source, pkg)
		markBean(g.ensure(ent.Target))
		g.addEdge(Edge{Source: ent.Source, Target: ent.Target, Kind: EdgeBean, Label: LabelBean})

	case model.EntityAutowired:
		if ent.Injection == model.InjectBeanParameter {
			// 源是产出的 bean 类型，不在当前文件中声明
			markBean(g.ensure(ent.Source))
		} else {
			a.declared(ent.Source, pkg)
		}
		g.ensure(ent.Target)
		label := LabelAutowired
		if ent.Injection.IsConstructorStyle() {
			label = LabelAutowiredCtor
		}
		g.addEdge(Edge{Source: ent.Source, Target: ent.Target, Kind: EdgeAutowired, Label: label})
	}
}

// declared 处理当前文件中声明的类：占位节点升级为 plain，并记录包名
func (a *Assembler) declared(name, pkg string) *Node {
	n := a.g.ensure(name)
	if n.Tag == model.TagUnresolved {
		n.Tag = model.TagPlain
	}
	if n.Package == "" {
		n.Package = pkg
	}
	return n
}

// mergeStereotype 仅在新 stereotype 更具体时覆盖已有的 stereotype；bean/plain/unresolved 总是被覆盖
func mergeStereotype(n *Node, st model.Stereotype) {
	if cur, ok := n.Tag.Stereotype(); ok && !st.Outranks(cur) {
		return
	}
	n.Tag = model.TagOf(st)
}

func markBean(n *Node) {
	if n.Tag == model.TagUnresolved || n.Tag == model.TagPlain {
		n.Tag = model.TagBean
	}
}
