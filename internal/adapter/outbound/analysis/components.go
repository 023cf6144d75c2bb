package analysis

import (
	"unicode"
	"unicode/utf8"

	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"
)

// uiSearchKinds is the construct set the detector descends when searching a
// body for rendered UI elements: statement blocks, branches, loops,
// ternaries, and returns. Nested function bodies are deliberately outside
// this set, so a helper closure rendering UI does not make its host a
// component.
var uiSearchKinds = map[string]bool{
	valueobject.KindBlockStatement:        true,
	valueobject.KindIfStatement:           true,
	valueobject.KindForStatement:          true,
	valueobject.KindForInStatement:        true,
	valueobject.KindForOfStatement:        true,
	valueobject.KindWhileStatement:        true,
	valueobject.KindDoWhileStatement:      true,
	valueobject.KindSwitchStatement:       true,
	valueobject.KindSwitchCase:            true,
	valueobject.KindConditionalExpression: true,
	valueobject.KindReturnStatement:       true,
}

// componentDetector runs the pattern rules over extracted functions and
// class declarations. It creates each descriptor fully populated in one
// pass; nothing mutates a component after detection.
type componentDetector struct {
	rules     detectorRules
	idx       *ParentIndex
	framework valueobject.Framework
}

func (d *componentDetector) detect(root *valueobject.Node, fns []extractedFunction) []outbound.ComponentDescriptor {
	var out []outbound.ComponentDescriptor
	for _, f := range fns {
		if f.Desc.IsMethod {
			continue
		}
		if c, ok := d.detectFunctional(f); ok {
			out = append(out, c)
		}
	}
	WalkAll(root, func(n *valueobject.Node) {
		if n.Kind != valueobject.KindClassDeclaration {
			return
		}
		if c, ok := d.detectClass(n); ok {
			out = append(out, c)
		}
	})
	return out
}

// detectFunctional applies the decision tree to one extracted function: it
// is a component when its name starts uppercase or its body renders a UI
// element, and a custom hook when its name follows the use-prefix rule.
func (d *componentDetector) detectFunctional(f extractedFunction) (outbound.ComponentDescriptor, bool) {
	name := f.Desc.Name
	hook := isHookName(name)
	if !hook && !startsUpper(name) && !d.bodyHasUI(f.Node) {
		return outbound.ComponentDescriptor{}, false
	}

	props := extractProps(f.Node)
	state := extractState(f.Node)
	hooks := d.extractHooks(f.Node)

	c := outbound.ComponentDescriptor{
		Symbol:        f.Desc.Symbol,
		ComponentKind: outbound.ComponentFunctional,
		Framework:     d.framework,
		IsHook:        hook,
		IsHigherOrder: d.isHigherOrder(f.Node),
		Props:         props,
		State:         state,
		Hooks:         hooks,
		Handlers:      d.extractHandlers(f.Node.Field("body")),
		Complexity: outbound.ComplexityModel{
			Cyclomatic:   f.Desc.Performance.CyclomaticComplexity,
			Cognitive:    f.Desc.Performance.CognitiveComplexity,
			NestingDepth: f.Desc.Performance.NestingDepth,
			StateCount:   len(state),
			HookCount:    len(hooks),
			PropCount:    len(props.Definitions),
		},
	}
	c.Kind = outbound.SymbolKindComponent
	d.applyRoleFlags(&c)
	return c, true
}

// detectClass qualifies a class declaration: on top of the naming/UI rule it
// must extend a recognized component base.
func (d *componentDetector) detectClass(class *valueobject.Node) (outbound.ComponentDescriptor, bool) {
	name := identifierText(class.Field("id"))
	if name == "" {
		name = anonymousName
	}
	if !d.rules.isRecognizedBase(superClassName(class)) {
		return outbound.ComponentDescriptor{}, false
	}
	body := class.Field("body")
	if !startsUpper(name) && !d.classRendersUI(body) {
		return outbound.ComponentDescriptor{}, false
	}

	exported, defaultExport := exportFlags(d.idx, class)
	m := metricsOf(class)
	c := outbound.ComponentDescriptor{
		Symbol: outbound.Symbol{
			Name:          name,
			Kind:          outbound.SymbolKindComponent,
			Scope:         resolveScope(d.idx, class),
			Position:      class.Pos,
			Exported:      exported,
			DefaultExport: defaultExport,
			Private:       isPrivateName(name),
			Complexity:    m.CyclomaticComplexity,
		},
		ComponentKind: outbound.ComponentClass,
		Framework:     d.framework,
		Lifecycle:     d.extractLifecycle(body),
		Handlers:      d.extractHandlers(body),
		Complexity: outbound.ComplexityModel{
			Cyclomatic:   m.CyclomaticComplexity,
			Cognitive:    m.CognitiveComplexity,
			NestingDepth: m.NestingDepth,
		},
	}
	d.applyRoleFlags(&c)
	return c, true
}

func (d *componentDetector) applyRoleFlags(c *outbound.ComponentDescriptor) {
	c.IsPage = d.rules.roleFlag("page", c.Name)
	c.IsLayout = d.rules.roleFlag("layout", c.Name)
	c.IsContainer = d.rules.roleFlag("container", c.Name)
	c.IsPresentational = d.rules.roleFlag("presentational", c.Name)
}

// bodyHasUI searches the body for a rendered UI element, descending only
// through the uiSearchKinds construct set.
func (d *componentDetector) bodyHasUI(body *valueobject.Node) bool {
	found := false
	WalkRestricted(body, uiSearchKinds, func(n *valueobject.Node) {
		if valueobject.IsUIElementKind(n.Kind) {
			found = true
		}
	})
	return found
}

// classRendersUI checks each method body of a class for rendered UI.
func (d *componentDetector) classRendersUI(classBody *valueobject.Node) bool {
	if classBody == nil {
		return false
	}
	for _, method := range classBody.ChildNodes() {
		if method.Kind != valueobject.KindMethodDefinition {
			continue
		}
		if value := method.Field("value"); value != nil && d.bodyHasUI(value) {
			return true
		}
	}
	return false
}

// isHigherOrder reports whether any reachable return yields a UI element, a
// call expression, or a function. A braceless arrow body counts as its
// single return.
func (d *componentDetector) isHigherOrder(fn *valueobject.Node) bool {
	if body := fn.Field("body"); body != nil && body.Kind != valueobject.KindBlockStatement {
		return isWrapperResult(body.Kind)
	}
	hoc := false
	WalkRestricted(fn.Field("body"), uiSearchKinds, func(n *valueobject.Node) {
		if n.Kind != valueobject.KindReturnStatement {
			return
		}
		if arg := n.Field("argument"); arg != nil && isWrapperResult(arg.Kind) {
			hoc = true
		}
	})
	return hoc
}

func isWrapperResult(kind string) bool {
	switch kind {
	case valueobject.KindJSXElement, valueobject.KindJSXFragment,
		valueobject.KindCallExpression,
		valueobject.KindFunctionExpression, valueobject.KindArrowFunction:
		return true
	default:
		return false
	}
}

// extractProps reads the component's first parameter. Only an object
// pattern yields definitions; a plain identifier parameter leaves the model
// empty.
func extractProps(fn *valueobject.Node) outbound.PropsModel {
	var model outbound.PropsModel
	params := fn.FieldAll("params")
	if len(params) == 0 || params[0].Kind != valueobject.KindObjectPattern {
		return model
	}
	for _, prop := range params[0].FieldAll("properties") {
		if prop.Kind != valueobject.KindProperty {
			continue
		}
		name := identifierText(prop.Field("key"))
		if name == "" {
			continue
		}
		def := outbound.PropDefinition{Name: name, Type: outbound.TypeAny, Required: true}
		if value := prop.Field("value"); value != nil && value.Kind == valueobject.KindAssignmentPattern {
			def.Required = false
			if right := value.Field("right"); right != nil {
				def.DefaultValue = literalValue(right)
				def.Type = inferType(right)
			}
		}
		model.Definitions = append(model.Definitions, def)
		if def.Required {
			model.Required = append(model.Required, name)
		} else {
			model.Optional = append(model.Optional, name)
		}
	}
	return model
}

// extractState finds bindings of the shape `const [x, setX] = call(initial)`
// where the second name is "set" plus the capitalized first name.
func extractState(fn *valueobject.Node) []outbound.StateDefinition {
	var out []outbound.StateDefinition
	WalkAll(fn, func(n *valueobject.Node) {
		if n.Kind != valueobject.KindVariableDeclarator {
			return
		}
		pattern := n.Field("id")
		if pattern == nil || pattern.Kind != valueobject.KindArrayPattern {
			return
		}
		elements := pattern.FieldAll("elements")
		if len(elements) != 2 {
			return
		}
		name := identifierText(elements[0])
		setter := identifierText(elements[1])
		if name == "" || setter != "set"+capitalize(name) {
			return
		}
		init := n.Field("init")
		if init == nil || init.Kind != valueobject.KindCallExpression {
			return
		}
		def := outbound.StateDefinition{Name: name, Setter: setter, Type: outbound.TypeAny}
		if args := init.FieldAll("arguments"); len(args) > 0 {
			def.Type = inferType(args[0])
			def.InitialValue = literalValue(args[0])
		}
		out = append(out, def)
	})
	return out
}

// extractHooks records every call whose callee follows the hook naming rule.
func (d *componentDetector) extractHooks(fn *valueobject.Node) []outbound.HookUsage {
	var out []outbound.HookUsage
	WalkAll(fn, func(n *valueobject.Node) {
		if n.Kind != valueobject.KindCallExpression {
			return
		}
		callee := identifierText(n.Field("callee"))
		if !isHookName(callee) {
			return
		}
		usage := outbound.HookUsage{
			Name:     callee,
			BuiltIn:  d.rules.isBuiltinHook(callee),
			Position: n.Pos,
		}
		args := n.FieldAll("arguments")
		for _, arg := range args {
			if arg.Kind == valueobject.KindLiteral {
				usage.Arguments = append(usage.Arguments, literalValue(arg))
			} else {
				usage.Arguments = append(usage.Arguments, "undefined")
			}
		}
		if len(args) >= 2 && args[1].Kind == valueobject.KindArrayExpression {
			for _, dep := range args[1].FieldAll("elements") {
				if name := identifierText(dep); name != "" {
					usage.Dependencies = append(usage.Dependencies, name)
				}
			}
		}
		out = append(out, usage)
	})
	return out
}

// extractHandlers finds nested functions whose names follow the handler
// naming rules: function declarations, arrows assigned to a variable, and
// methods or function-valued properties.
func (d *componentDetector) extractHandlers(body *valueobject.Node) []outbound.EventHandler {
	var out []outbound.EventHandler
	WalkAll(body, func(n *valueobject.Node) {
		var name string
		var pos valueobject.Position
		switch n.Kind {
		case valueobject.KindFunctionDeclaration:
			name = identifierText(n.Field("id"))
			pos = n.Pos
		case valueobject.KindVariableDeclarator:
			init := n.Field("init")
			if init == nil || !valueobject.IsFunctionKind(init.Kind) {
				return
			}
			name = identifierText(n.Field("id"))
			pos = n.Pos
		case valueobject.KindMethodDefinition:
			name = identifierText(n.Field("key"))
			pos = n.Pos
		case valueobject.KindProperty:
			value := n.Field("value")
			if value == nil || !valueobject.IsFunctionKind(value.Kind) {
				return
			}
			name = identifierText(n.Field("key"))
			pos = n.Pos
		default:
			return
		}
		if name == "" {
			return
		}
		if event, ok := d.rules.isHandlerName(name); ok {
			out = append(out, outbound.EventHandler{Name: name, Event: event, Position: pos})
		}
	})
	return out
}

// extractLifecycle maps recognized class methods to their lifecycle phase.
func (d *componentDetector) extractLifecycle(classBody *valueobject.Node) []outbound.LifecycleMethod {
	var out []outbound.LifecycleMethod
	WalkAll(classBody, func(n *valueobject.Node) {
		if n.Kind != valueobject.KindMethodDefinition {
			return
		}
		name := identifierText(n.Field("key"))
		if phase, ok := d.rules.lifecyclePhase(name); ok {
			out = append(out, outbound.LifecycleMethod{Name: name, Phase: phase, Position: n.Pos})
		}
	})
	return out
}

// superClassName renders a class's extends clause as a dotted name.
func superClassName(class *valueobject.Node) string {
	super := class.Field("superClass")
	if super == nil {
		return ""
	}
	switch super.Kind {
	case valueobject.KindIdentifier:
		return super.Text
	case valueobject.KindMemberExpression:
		object := identifierText(super.Field("object"))
		property := identifierText(super.Field("property"))
		if object != "" && property != "" {
			return object + "." + property
		}
	}
	return ""
}

func startsUpper(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func capitalize(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}
