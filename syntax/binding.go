package syntax

// This file defines resolver data types referenced by the syntax tree.
// We cannot guarantee API stability for these types
// as they are closely tied to the implementation.

// A Binding ties together all identifiers that denote the same variable.
// The resolver computes a binding for every declaring and referring Ident.
type Binding struct {
	Name  string
	Kind  Kind
	Ident *Ident // declaring identifier
	Decl  Node   // declaring node: *VarSpec, *Param, *FuncDecl, *FuncLit, ...
	Scope *Scope // declaring scope

	// Constant reports that the variable is never reassigned after
	// its declaration. It is false once any assignment, update or
	// redeclaration of the name has been seen.
	Constant   bool
	Violations []Node // assignments, updates and redeclarations
	Refs       []*Ident
}

// The Kind of a Binding indicates how the name was declared.
type Kind uint8

const (
	ParamKind  Kind = iota // function parameter
	VarKind                // var
	LetKind                // let
	ConstKind              // const
	FuncKind               // function declaration
	ClassKind              // class declaration
	ModuleKind             // import
	CatchKind              // catch clause parameter
	LocalKind              // own name of a named function or class expression
)

var kindNames = [...]string{
	ParamKind:  "param",
	VarKind:    "var",
	LetKind:    "let",
	ConstKind:  "const",
	FuncKind:   "hoisted",
	ClassKind:  "class",
	ModuleKind: "module",
	CatchKind:  "catch",
	LocalKind:  "local",
}

func (kind Kind) String() string { return kindNames[kind] }

// A Scope is a region of the program in which names may be declared.
type Scope struct {
	Kind     ScopeKind
	Node     Node // anchor: *File, *FuncLit, *FuncDecl, *Method, *BlockStmt, ...
	Parent   *Scope
	Bindings map[string]*Binding
	Names    []string // declared names, in order of declaration
}

// The ScopeKind of a Scope indicates what kind of region it is.
type ScopeKind uint8

const (
	ProgramScope  ScopeKind = iota // the whole file
	FunctionScope                  // parameters and body of a function
	BlockScope                     // a block, loop head, or switch body
	ClassScope                     // the own name of a class expression
	CatchScope                     // catch clause parameter and body
)

var scopeNames = [...]string{
	ProgramScope:  "program",
	FunctionScope: "function",
	BlockScope:    "block",
	ClassScope:    "class",
	CatchScope:    "catch",
}

func (kind ScopeKind) String() string { return scopeNames[kind] }

// Lookup returns the binding for name in s or the nearest enclosing scope,
// or nil if there is none.
func (s *Scope) Lookup(name string) *Binding {
	for ; s != nil; s = s.Parent {
		if b := s.Bindings[name]; b != nil {
			return b
		}
	}
	return nil
}

// Encloses reports whether s is t or an ancestor of t.
func (s *Scope) Encloses(t *Scope) bool {
	for ; t != nil; t = t.Parent {
		if t == s {
			return true
		}
	}
	return false
}
