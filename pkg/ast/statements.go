package ast

// StmtKind enumerates the top-level statement variants.
type StmtKind int

const (
	StmtVariable StmtKind = iota
	StmtTypeAlias
	StmtOpaqueDecl
	StmtImport
	StmtExportNamed
	StmtExportAll
	StmtExportDefault
)

func (k StmtKind) String() string {
	switch k {
	case StmtVariable:
		return "variable"
	case StmtTypeAlias:
		return "type-alias"
	case StmtOpaqueDecl:
		return "opaque-declaration"
	case StmtImport:
		return "import"
	case StmtExportNamed:
		return "export-named"
	case StmtExportAll:
		return "export-all"
	case StmtExportDefault:
		return "export-default"
	default:
		return "unknown"
	}
}

// Statement is a top-level statement.
type Statement interface {
	Kind() StmtKind
	Location() Location
	statement()
}

// VariableDecl is a const/let/var statement.
type VariableDecl struct {
	Node
	Exported    bool
	Declarators []Declarator
}

// Declarator binds one name. Init is nil when there is no initializer or the
// binding is a destructuring pattern.
type Declarator struct {
	Node
	Name string
	Init Value
}

// TypeAliasDecl is a type alias or an interface. Interfaces are lowered to an
// ObjectType whose extends clauses become leading spread members.
type TypeAliasDecl struct {
	Node
	Name        string
	Exported    bool
	Interface   bool
	Type        TypeExpr
	Description string
}

// OpaqueDecl is a declaration whose body the resolver never inspects
// (function, class, enum). Only the declared name matters, for export sets.
type OpaqueDecl struct {
	Node
	Name     string
	Exported bool
	What     string
}

// BindingKind distinguishes import binding forms.
type BindingKind int

const (
	BindingNamed BindingKind = iota
	BindingDefault
	BindingNamespace
)

// ImportBinding is one name bound by an import. Imported is "default" for
// default imports and "*" for namespace imports.
type ImportBinding struct {
	Kind     BindingKind
	Imported string
	Local    string
}

// ImportDecl is an import statement. Side-effect imports have no bindings.
type ImportDecl struct {
	Node
	Source   string
	TypeOnly bool
	Bindings []ImportBinding
}

// ExportSpecifier is one entry of an export clause: export { Local as Exported }.
type ExportSpecifier struct {
	Local    string
	Exported string
}

// ExportNamed is export { a, b as c } with an optional from clause.
type ExportNamed struct {
	Node
	Source     string
	Specifiers []ExportSpecifier
}

// ExportAll is export * from 'x', or export * as ns from 'x' when Namespace is set.
type ExportAll struct {
	Node
	Source    string
	Namespace string
}

// ExportDefault is export default <value>. Value is an *Identifier when the
// exported expression is a bare identifier.
type ExportDefault struct {
	Node
	Value Value
}

func (*VariableDecl) Kind() StmtKind  { return StmtVariable }
func (*TypeAliasDecl) Kind() StmtKind { return StmtTypeAlias }
func (*OpaqueDecl) Kind() StmtKind    { return StmtOpaqueDecl }
func (*ImportDecl) Kind() StmtKind    { return StmtImport }
func (*ExportNamed) Kind() StmtKind   { return StmtExportNamed }
func (*ExportAll) Kind() StmtKind     { return StmtExportAll }
func (*ExportDefault) Kind() StmtKind { return StmtExportDefault }

func (*VariableDecl) statement()  {}
func (*TypeAliasDecl) statement() {}
func (*OpaqueDecl) statement()    {}
func (*ImportDecl) statement()    {}
func (*ExportNamed) statement()   {}
func (*ExportAll) statement()     {}
func (*ExportDefault) statement() {}
