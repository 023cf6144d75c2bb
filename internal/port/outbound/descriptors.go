package outbound

import (
	"codeatlas/internal/domain/valueobject"
)

// SymbolKind distinguishes the three descriptor families.
type SymbolKind string

const (
	SymbolKindVariable  SymbolKind = "variable"
	SymbolKindFunction  SymbolKind = "function"
	SymbolKindComponent SymbolKind = "component"
)

// UsageKind classifies one occurrence of a symbol's name.
type UsageKind string

const (
	UsageRead           UsageKind = "read"
	UsageAssignment     UsageKind = "assignment"
	UsageFunctionCall   UsageKind = "function_call"
	UsagePropertyAccess UsageKind = "property_access"
	UsageArrayAccess    UsageKind = "array_access"
	UsageConditional    UsageKind = "conditional"
	UsageLoop           UsageKind = "loop"
	UsageOther          UsageKind = "other"
)

// UsageRecord is one classified occurrence of a symbol's name elsewhere in
// the tree. Context is the nearest enclosing named function, or "global".
type UsageRecord struct {
	Kind             UsageKind            `json:"kind"`
	Position         valueobject.Position `json:"position"`
	Context          string               `json:"context"`
	IsAssignment     bool                 `json:"is_assignment"`
	IsRead           bool                 `json:"is_read"`
	IsFunctionCall   bool                 `json:"is_function_call"`
	IsPropertyAccess bool                 `json:"is_property_access"`
	IsLoopVariable   bool                 `json:"is_loop_variable"`
}

// Symbol is the shared base of the three descriptor families. Identity
// within a file is the (Name, Position) pair; same-named declarations in
// different scopes are distinct symbols.
type Symbol struct {
	Name          string                `json:"name"`
	Kind          SymbolKind            `json:"kind"`
	Scope         valueobject.ScopeKind `json:"scope"`
	Position      valueobject.Position  `json:"position"`
	Exported      bool                  `json:"exported"`
	DefaultExport bool                  `json:"default_export"`
	Private       bool                  `json:"private"`
	Complexity    int                   `json:"complexity"`
	UsageCount    int                   `json:"usage_count"`
	Usages        []UsageRecord         `json:"usages,omitempty"`
	LastUsedAt    *valueobject.Position `json:"last_used_at,omitempty"`
}

// RecordUsage appends a usage record, keeping UsageCount and LastUsedAt in
// step with the usage list.
func (s *Symbol) RecordUsage(u UsageRecord) {
	s.Usages = append(s.Usages, u)
	s.UsageCount = len(s.Usages)
	last := s.Usages[len(s.Usages)-1].Position
	s.LastUsedAt = &last
}

// TypeTag is a shallow, literal-derived type guess.
type TypeTag string

const (
	TypeString   TypeTag = "string"
	TypeNumber   TypeTag = "number"
	TypeBoolean  TypeTag = "boolean"
	TypeArray    TypeTag = "array"
	TypeObject   TypeTag = "object"
	TypeFunction TypeTag = "function"
	TypeClass    TypeTag = "class"
	TypeAny      TypeTag = "any"
)

// DeclarationForm is the syntactic form a variable was declared with.
type DeclarationForm string

const (
	DeclVar      DeclarationForm = "var"
	DeclLet      DeclarationForm = "let"
	DeclConst    DeclarationForm = "const"
	DeclFunction DeclarationForm = "function"
	DeclClass    DeclarationForm = "class"
	DeclArrow    DeclarationForm = "arrow"
)

// VariableDescriptor models one declared variable.
type VariableDescriptor struct {
	Symbol

	InferredType TypeTag         `json:"inferred_type"`
	Form         DeclarationForm `json:"declaration_form"`
	ReadOnly     bool            `json:"read_only"`
	Value        string          `json:"value,omitempty"`
}

// Parameter is one declared function parameter.
type Parameter struct {
	Name         string  `json:"name"`
	Type         TypeTag `json:"type"`
	Optional     bool    `json:"optional"`
	DefaultValue string  `json:"default_value,omitempty"`
	IsRest       bool    `json:"is_rest"`
}

// PerformanceMetrics holds structural counts for a function subtree.
type PerformanceMetrics struct {
	CyclomaticComplexity int `json:"cyclomatic_complexity"`
	CognitiveComplexity  int `json:"cognitive_complexity"`
	ParameterCount       int `json:"parameter_count"`
	LocalVariableCount   int `json:"local_variable_count"`
	StatementCount       int `json:"statement_count"`
	ExpressionCount      int `json:"expression_count"`
	ConditionCount       int `json:"condition_count"`
	LoopCount            int `json:"loop_count"`
	NestingDepth         int `json:"nesting_depth"`
}

// FunctionDescriptor models one declared function or method.
type FunctionDescriptor struct {
	Symbol

	Parameters  []Parameter        `json:"parameters,omitempty"`
	ReturnType  TypeTag            `json:"return_type"`
	IsAsync     bool               `json:"is_async"`
	IsGenerator bool               `json:"is_generator"`
	IsArrow     bool               `json:"is_arrow"`
	IsMethod    bool               `json:"is_method"`
	IsStatic    bool               `json:"is_static"`
	CallCount   int                `json:"call_count"`
	CalledBy    []string           `json:"called_by,omitempty"`
	Performance PerformanceMetrics `json:"performance"`
}

// ComponentKind distinguishes the supported component declaration styles.
type ComponentKind string

const (
	ComponentFunctional ComponentKind = "functional"
	ComponentClass      ComponentKind = "class"
	ComponentSingleFile ComponentKind = "single_file"
)

// PropDefinition is one prop read from a component's first parameter.
type PropDefinition struct {
	Name         string  `json:"name"`
	Type         TypeTag `json:"type"`
	Required     bool    `json:"required"`
	DefaultValue string  `json:"default_value,omitempty"`
}

// PropsModel is the extracted props surface of a component.
type PropsModel struct {
	Definitions []PropDefinition `json:"definitions,omitempty"`
	Required    []string         `json:"required,omitempty"`
	Optional    []string         `json:"optional,omitempty"`
}

// StateDefinition is one state binding of the form
// `const [x, setX] = useState(initial)`.
type StateDefinition struct {
	Name         string  `json:"name"`
	Setter       string  `json:"setter"`
	Type         TypeTag `json:"type"`
	InitialValue string  `json:"initial_value,omitempty"`
}

// LifecyclePhase groups class lifecycle methods by when they run.
type LifecyclePhase string

const (
	PhaseMounting   LifecyclePhase = "mounting"
	PhaseUpdating   LifecyclePhase = "updating"
	PhaseUnmounting LifecyclePhase = "unmounting"
	PhaseError      LifecyclePhase = "error"
)

// LifecycleMethod is one recognized class lifecycle method.
type LifecycleMethod struct {
	Name     string               `json:"name"`
	Phase    LifecyclePhase       `json:"phase"`
	Position valueobject.Position `json:"position"`
}

// HookUsage is one hook call inside a component body. Arguments holds
// literal argument values; non-literal arguments are recorded as "undefined".
type HookUsage struct {
	Name         string               `json:"name"`
	BuiltIn      bool                 `json:"built_in"`
	Position     valueobject.Position `json:"position"`
	Arguments    []string             `json:"arguments,omitempty"`
	Dependencies []string             `json:"dependencies,omitempty"`
}

// EventType tags an event handler by the event it responds to.
type EventType string

const (
	EventClick   EventType = "click"
	EventChange  EventType = "change"
	EventSubmit  EventType = "submit"
	EventFocus   EventType = "focus"
	EventBlur    EventType = "blur"
	EventUnknown EventType = "unknown"
)

// EventHandler is one detected event handler inside a component.
type EventHandler struct {
	Name     string               `json:"name"`
	Event    EventType            `json:"event"`
	Position valueobject.Position `json:"position"`
}

// ComplexityModel summarizes a component's structural complexity.
type ComplexityModel struct {
	Cyclomatic   int `json:"cyclomatic"`
	Cognitive    int `json:"cognitive"`
	NestingDepth int `json:"nesting_depth"`
	StateCount   int `json:"state_count"`
	HookCount    int `json:"hook_count"`
	PropCount    int `json:"prop_count"`
}

// ComponentDescriptor models one detected UI component. It is created and
// fully populated by the component pattern detector in one pass and never
// mutated afterward.
type ComponentDescriptor struct {
	Symbol

	ComponentKind    ComponentKind         `json:"component_kind"`
	Framework        valueobject.Framework `json:"framework"`
	IsPage           bool                  `json:"is_page"`
	IsLayout         bool                  `json:"is_layout"`
	IsContainer      bool                  `json:"is_container"`
	IsPresentational bool                  `json:"is_presentational"`
	IsHigherOrder    bool                  `json:"is_higher_order"`
	IsHook           bool                  `json:"is_hook"`
	Props            PropsModel            `json:"props"`
	State            []StateDefinition     `json:"state,omitempty"`
	Lifecycle        []LifecycleMethod     `json:"lifecycle,omitempty"`
	Hooks            []HookUsage           `json:"hooks,omitempty"`
	Handlers         []EventHandler        `json:"handlers,omitempty"`
	Complexity       ComplexityModel       `json:"complexity_model"`
}

// ImportRecord is one import statement of a file.
type ImportRecord struct {
	Source   string               `json:"source"`
	Symbols  []string             `json:"symbols,omitempty"`
	Default  string               `json:"default,omitempty"`
	Position valueobject.Position `json:"position"`
}

// FileAnalysis is the full analysis result for one source file: the
// SourceUnit of the data model. It is created once per file per run and is
// immutable after creation.
type FileAnalysis struct {
	FilePath  string                `json:"file_path"`
	Language  valueobject.Language  `json:"language"`
	Framework valueobject.Framework `json:"framework"`
	SizeBytes int64                 `json:"size_bytes"`
	LineCount int                   `json:"line_count"`
	Encoding  string                `json:"encoding"`

	Variables  []VariableDescriptor  `json:"variables"`
	Functions  []FunctionDescriptor  `json:"functions"`
	Components []ComponentDescriptor `json:"components"`
	Imports    []ImportRecord        `json:"imports,omitempty"`
}

// SymbolCount returns the total number of symbols in the file.
func (f *FileAnalysis) SymbolCount() int {
	return len(f.Variables) + len(f.Functions) + len(f.Components)
}

// FileFailure records a file whose analysis failed during a batch run.
type FileFailure struct {
	FilePath string `json:"file_path"`
	Error    string `json:"error"`
}

// ProjectAnalysis is the merged, project-level model. Files are sorted by
// path so repeated runs produce identical output.
type ProjectAnalysis struct {
	RootPath    string        `json:"root_path"`
	Files       []FileAnalysis `json:"files"`
	FailedFiles []FileFailure  `json:"failed_files,omitempty"`

	TotalFiles   int `json:"total_files"`
	TotalSymbols int `json:"total_symbols"`
}
