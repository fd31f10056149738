package java

// Tree-sitter Java 节点类型
const (
	NodeProgram              = "program"
	NodePackageDeclaration   = "package_declaration"
	NodeImportDeclaration    = "import_declaration"
	NodeClassDeclaration     = "class_declaration"
	NodeInterfaceDeclaration = "interface_declaration"
	NodeEnumDeclaration      = "enum_declaration"
	NodeRecordDeclaration    = "record_declaration"
	NodeFieldDeclaration     = "field_declaration"
	NodeMethodDeclaration    = "method_declaration"
	NodeConstructorDecl      = "constructor_declaration"
	NodeFormalParameter      = "formal_parameter"
	NodeSpreadParameter      = "spread_parameter"
	NodeVariableDeclarator   = "variable_declarator"
	NodeModifiers            = "modifiers"
	NodeMarkerAnnotation     = "marker_annotation"
	NodeAnnotation           = "annotation"
	NodeScopedIdentifier     = "scoped_identifier"
	NodeIdentifier           = "identifier"
	NodeAsterisk             = "asterisk"
)

// 以下节点类型都视为"类"声明
var classLikeKinds = map[string]bool{
	NodeClassDeclaration:     true,
	NodeInterfaceDeclaration: true,
	NodeEnumDeclaration:      true,
	NodeRecordDeclaration:    true,
}
