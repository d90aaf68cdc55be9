// Package extract turns parsed Rust ASTs into per-file records of defined
// entities and referenced names, partitioned by analysis mode.
package extract

// Visibility of a Rust item as written in source.
type Visibility string

const (
	VisPrivate  Visibility = "private"
	VisPublic   Visibility = "pub"
	VisCrate    Visibility = "pub(crate)"
	VisSuper    Visibility = "pub(super)"
	VisIn       Visibility = "pub(restricted)"
)

// External reports whether the visibility could expose the item outside the
// crate.
func (v Visibility) External() bool {
	return v == VisPublic
}

// ModuleInfo stores metadata for a single module file.
type ModuleInfo struct {
	// Path to the module file, normalized to forward slashes.
	Path string `json:"path"`
	// Module name (file stem).
	Name string `json:"name"`
	// Referenced module names (mod declarations, use path roots and
	// terminal segments, and use aliases).
	Refs map[string]bool `json:"refs"`
	// Module declarations in this file with their visibility.
	ModDecls map[string]Visibility `json:"mod_decls,omitempty"`
	// Re-exported names (`pub use`); glob re-exports record "*".
	Reexports map[string]bool `json:"reexports,omitempty"`
	// Whether the file carries #![doc(hidden)].
	DocHidden bool `json:"doc_hidden,omitempty"`
}

// NewModuleInfo creates a ModuleInfo for a file path with empty sets.
func NewModuleInfo(path, name string) *ModuleInfo {
	return &ModuleInfo{
		Path:      path,
		Name:      name,
		Refs:      make(map[string]bool, 8),
		ModDecls:  make(map[string]Visibility, 4),
		Reexports: make(map[string]bool, 4),
	}
}

// FunctionDef describes a function definition for call-graph analysis.
type FunctionDef struct {
	// Simple function name.
	Name string `json:"name"`
	// Full qualified path (e.g. "module::Type::method").
	FullPath string `json:"full_path"`
	// Source file path, normalized.
	File string `json:"file"`
	// Line number (1-indexed).
	Line uint32 `json:"line"`
	// Whether this function has a self receiver.
	IsMethod bool `json:"is_method"`
	// Parent type name if defined inside an impl block.
	ParentType string `json:"parent_type,omitempty"`
	// Visibility as written.
	Visibility Visibility `json:"visibility"`
	// Whether a preceding attribute mentions test or bench, e.g. #[test],
	// #[bench], or #[cfg(test)].
	IsTest bool `json:"-"`
}

// CallUsage holds the call sites extracted from one file.
type CallUsage struct {
	// Simple names that are called: foo(), x.method().
	Calls map[string]bool
	// Qualified paths that are called: Type::method, module::function.
	Qualified map[string]bool
	// Semantically resolved full paths (via UseMap + module context).
	Resolved map[string]bool
}

// TraitMethodDef describes a method declared in a trait.
type TraitMethodDef struct {
	TraitName  string     `json:"trait_name"`
	MethodName string     `json:"method_name"`
	FullPath   string     `json:"full_path"`
	Visibility Visibility `json:"visibility"`
	// Whether the method has no default body.
	IsRequired bool   `json:"is_required"`
	File       string `json:"file"`
	Line       uint32 `json:"line"`
}

// InherentMethodDef describes a method in an inherent impl block.
type InherentMethodDef struct {
	TypeName   string     `json:"type_name"`
	MethodName string     `json:"method_name"`
	FullID     string     `json:"full_id"`
	Visibility Visibility `json:"visibility"`
	IsStatic   bool       `json:"is_static"`
	File       string     `json:"file"`
	Line       uint32     `json:"line"`
}

// GenericKind distinguishes generic parameter kinds.
type GenericKind string

const (
	GenericType     GenericKind = "type"
	GenericLifetime GenericKind = "lifetime"
	GenericConst    GenericKind = "const"
)

// DeclaredGeneric describes a declared generic parameter or lifetime.
type DeclaredGeneric struct {
	// The parameter name, e.g. "T" or "'a".
	Name string `json:"name"`
	Kind GenericKind `json:"kind"`
	// The item declaring it, e.g. "Foo" for `struct Foo<T>`.
	Parent string `json:"parent"`
	// "function", "struct", "enum", "trait", "impl", or "type".
	ParentKind string `json:"parent_kind"`
	File       string `json:"file"`
	Line       uint32 `json:"line"`
	// Names mentioned in the parent's signature, body types, and
	// where-clauses; a parameter absent from this set is unused.
	mentions map[string]bool
}

// Mentioned reports whether the parameter name occurs in its parent scope
// outside the declaration itself.
func (g *DeclaredGeneric) Mentioned() bool {
	return g.mentions[g.Name]
}

// MacroDef describes a macro_rules! definition.
type MacroDef struct {
	Name string `json:"name"`
	// Whether #[macro_export] precedes the definition.
	Exported   bool   `json:"exported"`
	File       string `json:"file"`
	ModulePath string `json:"module_path,omitempty"`
	Line       uint32 `json:"line"`
}

// ConstDef describes a const or static item.
type ConstDef struct {
	Name       string     `json:"name"`
	File       string     `json:"file"`
	Line       uint32     `json:"line"`
	IsStatic   bool       `json:"is_static"`
	IsMutable  bool       `json:"is_mutable"`
	Visibility Visibility `json:"visibility"`
	ModulePath string     `json:"module_path,omitempty"`
	// If declared inside an impl block, the type name.
	ImplType string `json:"impl_type,omitempty"`
}

// EnumVariantDef describes one enum variant.
type EnumVariantDef struct {
	EnumName    string     `json:"enum_name"`
	VariantName string     `json:"variant_name"`
	// "Enum::Variant".
	FullName   string     `json:"full_name"`
	File       string     `json:"file"`
	Line       uint32     `json:"line"`
	ModulePath string     `json:"module_path,omitempty"`
	Visibility Visibility `json:"visibility"`
}

// MatchArm describes one arm of a match expression.
type MatchArm struct {
	// The pattern as written.
	Pattern string `json:"pattern"`
	// The variant name if the pattern names one.
	VariantName string `json:"variant_name,omitempty"`
	IsWildcard  bool   `json:"is_wildcard"`
	// Position within its match expression (0-indexed).
	Position int `json:"position"`
	// Total arms in the same match expression.
	TotalArms int    `json:"total_arms"`
	File      string `json:"file"`
	Line      uint32 `json:"line"`
	// Identifies the owning match expression within the file.
	MatchIndex int `json:"-"`
}

// Extracted is the full per-file record: everything the file defines and
// every named reference it makes, partitioned by analysis mode.
type Extracted struct {
	// File path, normalized to forward slashes.
	Path string

	Module *ModuleInfo

	Functions []FunctionDef
	Calls     CallUsage

	TraitMethods    []TraitMethodDef
	InherentMethods []InherentMethodDef
	// Method and associated-function names used anywhere in the file.
	MethodUsages map[string]bool

	Generics []DeclaredGeneric

	Macros      []MacroDef
	MacroUsages map[string]bool

	Constants  []ConstDef
	IdentUsages map[string]bool

	Variants []EnumVariantDef
	// Bare variant/identifier names seen in expressions and patterns.
	VariantUsages map[string]bool
	// "Enum::Variant" style paths seen in expressions and patterns.
	VariantPaths map[string]bool

	MatchArms  []MatchArm
	MatchCount int

	// Per-file import map for call resolution.
	Uses *UseMap
}

func newExtracted(path string) *Extracted {
	stem := fileStem(path)
	return &Extracted{
		Path:          path,
		Module:        NewModuleInfo(path, stem),
		Calls:         CallUsage{Calls: map[string]bool{}, Qualified: map[string]bool{}, Resolved: map[string]bool{}},
		MethodUsages:  map[string]bool{},
		MacroUsages:   map[string]bool{},
		IdentUsages:   map[string]bool{},
		VariantUsages: map[string]bool{},
		VariantPaths:  map[string]bool{},
		Uses:          NewUseMap(),
	}
}
