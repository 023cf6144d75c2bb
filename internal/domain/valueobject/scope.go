package valueobject

// ScopeKind classifies the lexical scope enclosing a tree position.
type ScopeKind string

const (
	ScopeModule   ScopeKind = "module"
	ScopeFunction ScopeKind = "function"
	ScopeClass    ScopeKind = "class"
	ScopeBlock    ScopeKind = "block"
)

// String returns the scope name.
func (s ScopeKind) String() string {
	return string(s)
}
