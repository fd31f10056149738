package java

import (
	"fmt"
	"iter"
	"strings"

	"github.com/CodMac/go-spring-visualizer/core"
	"github.com/CodMac/go-spring-visualizer/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Collector struct{}

func NewJavaCollector() *Collector {
	return &Collector{}
}

func (c *Collector) CollectDeclarations(rootNode *sitter.Node, filePath string, sourceBytes []byte) (*core.FileContext, error) {
	if rootNode == nil {
		return nil, fmt.Errorf("nil root node for %s", filePath)
	}
	fCtx := core.NewFileContext(filePath)

	// 1. 处理顶级声明 (Package & Imports)
	c.processTopLevelDeclarations(rootNode, fCtx, sourceBytes)

	// 2. 收集声明点
	for decl := range c.Declarations(rootNode, filePath, sourceBytes, fCtx.AddWarning) {
		fCtx.AddDeclaration(decl)
	}
	if rootNode.HasError() && len(fCtx.Warnings) == 0 {
		fCtx.AddWarning("file contains syntax errors")
	}

	return fCtx, nil
}

// Declarations 惰性遍历 AST，按源码顺序产出声明点。
// 只要解析树未关闭即可重复遍历；语法错误区域被跳过并通过 warn 报告。
func (c *Collector) Declarations(rootNode *sitter.Node, filePath string, sourceBytes []byte, warn func(string)) iter.Seq[model.Declaration] {
	if warn == nil {
		warn = func(string) {}
	}
	return func(yield func(model.Declaration) bool) {
		w := &walker{filePath: filePath, source: sourceBytes, warn: warn, yield: yield}
		w.walk(rootNode, "")
	}
}

func (c *Collector) processTopLevelDeclarations(root *sitter.Node, fCtx *core.FileContext, sourceBytes []byte) {
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case NodePackageDeclaration:
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub != nil && (sub.Kind() == NodeScopedIdentifier || sub.Kind() == NodeIdentifier) {
					fCtx.PackageName = sub.Utf8Text(sourceBytes)
					break
				}
			}
		case NodeImportDeclaration:
			c.handleImport(child, fCtx, sourceBytes)
		}
	}
}

func (c *Collector) handleImport(node *sitter.Node, fCtx *core.FileContext, sourceBytes []byte) {
	isStatic := false
	var pathParts []string

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "static":
			isStatic = true
		case NodeScopedIdentifier, NodeIdentifier, NodeAsterisk:
			pathParts = append(pathParts, child.Utf8Text(sourceBytes))
		}
	}

	if len(pathParts) == 0 {
		return
	}

	fullPath := strings.Join(pathParts, ".")
	entry := &core.ImportEntry{
		RawImportPath: fullPath,
		IsStatic:      isStatic,
		IsWildcard:    pathParts[len(pathParts)-1] == "*",
		Location:      location(node, fCtx.FilePath),
	}
	if entry.IsWildcard {
		entry.Alias = "*"
	} else {
		entry.Alias = fullPath[strings.LastIndex(fullPath, ".")+1:]
	}
	fCtx.AddImport(entry)
}

// walker 持有一次遍历的状态；yield 返回 false 时整个遍历停止
type walker struct {
	filePath string
	source   []byte
	warn     func(string)
	yield    func(model.Declaration) bool
}

func (w *walker) walk(node *sitter.Node, enclosing string) bool {
	if node == nil {
		return true
	}
	if node.IsError() || node.IsMissing() {
		w.warn(fmt.Sprintf("line %d: skipped malformed source region", node.StartPosition().Row+1))
		return true
	}

	kind := node.Kind()
	switch {
	case classLikeKinds[kind]:
		return w.walkClass(node)
	case kind == NodeFieldDeclaration:
		if enclosing == "" {
			return true
		}
		if node.HasError() {
			w.warn(fmt.Sprintf("line %d: skipped malformed field", node.StartPosition().Row+1))
			return true
		}
		for _, d := range w.fields(node, enclosing) {
			if !w.yield(d) {
				return false
			}
		}
		return true
	case kind == NodeConstructorDecl || kind == NodeMethodDeclaration:
		// 不进入方法体：局部类和匿名类不参与装配
		if enclosing == "" {
			return true
		}
		if headerHasError(node) {
			w.warn(fmt.Sprintf("line %d: skipped malformed %s", node.StartPosition().Row+1, node.Kind()))
			return true
		}
		if d, ok := w.callable(node, enclosing); ok {
			return w.yield(d)
		}
		return true
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if !w.walk(node.Child(i), enclosing) {
			return false
		}
	}
	return true
}

func (w *walker) walkClass(node *sitter.Node) bool {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		w.warn(fmt.Sprintf("line %d: class declaration without a name", node.StartPosition().Row+1))
		return true
	}
	name := nameNode.Utf8Text(w.source)
	decl := model.Declaration{
		Kind:        model.DeclClass,
		Class:       name,
		Name:        name,
		Annotations: w.annotations(node),
		Location:    location(node, w.filePath),
	}
	if !w.yield(decl) {
		return false
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return true
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		if !w.walk(body.Child(i), name) {
			return false
		}
	}
	return true
}

func (w *walker) fields(node *sitter.Node, enclosing string) []model.Declaration {
	rawType := ""
	if t := node.ChildByFieldName("type"); t != nil {
		rawType = t.Utf8Text(w.source)
	}
	annotations := w.annotations(node)

	var decls []model.Declaration
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() != NodeVariableDeclarator {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		decls = append(decls, model.Declaration{
			Kind:        model.DeclField,
			Class:       enclosing,
			Name:        nameNode.Utf8Text(w.source),
			Type:        SimpleTypeName(rawType),
			RawType:     rawType,
			Annotations: annotations,
			Location:    location(node, w.filePath),
		})
	}
	return decls
}

func (w *walker) callable(node *sitter.Node, enclosing string) (model.Declaration, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		w.warn(fmt.Sprintf("line %d: %s without a name", node.StartPosition().Row+1, node.Kind()))
		return model.Declaration{}, false
	}

	decl := model.Declaration{
		Class:       enclosing,
		Name:        nameNode.Utf8Text(w.source),
		Annotations: w.annotations(node),
		Location:    location(node, w.filePath),
	}
	argKind := model.DeclMethodArg
	if node.Kind() == NodeConstructorDecl {
		decl.Kind = model.DeclConstructor
		argKind = model.DeclConstructorArg
	} else {
		decl.Kind = model.DeclMethod
		if t := node.ChildByFieldName("type"); t != nil {
			decl.RawType = t.Utf8Text(w.source)
			decl.Type = SimpleTypeName(decl.RawType)
		}
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		decl.Params = w.parameters(params, argKind, enclosing)
	}
	return decl, true
}

// parameters 逐个产出参数，以便保留参数级别的注解
func (w *walker) parameters(params *sitter.Node, kind model.DeclKind, enclosing string) []model.Declaration {
	var decls []model.Declaration
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		if p == nil {
			continue
		}
		if p.IsError() || p.IsMissing() {
			w.warn(fmt.Sprintf("line %d: skipped malformed parameter", p.StartPosition().Row+1))
			continue
		}

		var typeNode, nameNode *sitter.Node
		switch p.Kind() {
		case NodeFormalParameter:
			typeNode = p.ChildByFieldName("type")
			nameNode = p.ChildByFieldName("name")
		case NodeSpreadParameter:
			for j := uint(0); j < p.NamedChildCount(); j++ {
				sub := p.NamedChild(j)
				switch {
				case sub == nil, sub.Kind() == NodeModifiers:
				case sub.Kind() == NodeVariableDeclarator:
					nameNode = sub.ChildByFieldName("name")
				case typeNode == nil:
					typeNode = sub
				}
			}
		default:
			// receiver_parameter 等
			continue
		}
		if typeNode == nil {
			continue
		}

		rawType := typeNode.Utf8Text(w.source)
		decl := model.Declaration{
			Kind:        kind,
			Class:       enclosing,
			Type:        SimpleTypeName(rawType),
			RawType:     rawType,
			Annotations: w.annotations(p),
			Location:    location(p, w.filePath),
		}
		if nameNode != nil {
			decl.Name = nameNode.Utf8Text(w.source)
		}
		decls = append(decls, decl)
	}
	return decls
}

// annotations 读取节点 modifiers 中的注解；注释等其它子节点被忽略
func (w *walker) annotations(node *sitter.Node) []model.Annotation {
	var annos []model.Annotation
	for i := uint(0); i < node.ChildCount(); i++ {
		mNode := node.Child(i)
		if mNode == nil || mNode.Kind() != NodeModifiers {
			continue
		}
		for j := uint(0); j < mNode.ChildCount(); j++ {
			child := mNode.Child(j)
			if child == nil {
				continue
			}
			if child.IsError() || child.IsMissing() {
				w.warn(fmt.Sprintf("line %d: skipped malformed modifier", child.StartPosition().Row+1))
				continue
			}
			if child.Kind() != NodeMarkerAnnotation && child.Kind() != NodeAnnotation {
				continue
			}
			anno, err := ParseAnnotation(child.Utf8Text(w.source))
			if err != nil {
				w.warn(fmt.Sprintf("line %d: %v", child.StartPosition().Row+1, err))
				continue
			}
			annos = append(annos, anno)
		}
	}
	return annos
}

// headerHasError 只检查方法体以外的部分，方法体中的语法错误不影响声明本身
func headerHasError(node *sitter.Node) bool {
	body := node.ChildByFieldName("body")
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || (body != nil && child.Id() == body.Id()) {
			continue
		}
		if child.IsError() || child.IsMissing() || child.HasError() {
			return true
		}
	}
	return false
}

func location(n *sitter.Node, filePath string) *model.Location {
	if n == nil {
		return nil
	}
	return &model.Location{
		FilePath:  filePath,
		StartLine: int(n.StartPosition().Row) + 1,
		EndLine:   int(n.EndPosition().Row) + 1,
	}
}
