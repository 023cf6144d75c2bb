package analysis

import (
	_ "embed"
	"fmt"
	"strings"

	"codeatlas/internal/port/outbound"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

// detectorRules holds the pattern tables the component detector matches
// against. They ship embedded in the binary and load once per engine.
type detectorRules struct {
	RoleFlags        map[string][]string `yaml:"role_flags"`
	ClassBases       []string            `yaml:"class_bases"`
	BuiltinHooks     []string            `yaml:"builtin_hooks"`
	HandlerPrefixes  []string            `yaml:"handler_prefixes"`
	EventKeywords    []eventKeywordRule  `yaml:"event_keywords"`
	LifecycleMethods map[string]string   `yaml:"lifecycle_methods"`

	builtinHookSet map[string]bool
	classBaseSet   map[string]bool
}

// eventKeywordRule maps one name substring to the event it implies.
type eventKeywordRule struct {
	Keyword string `yaml:"keyword"`
	Event   string `yaml:"event"`
}

func loadDetectorRules() (detectorRules, error) {
	var r detectorRules
	if err := yaml.Unmarshal(rulesYAML, &r); err != nil {
		return r, fmt.Errorf("failed to parse detector rules: %w", err)
	}
	r.builtinHookSet = make(map[string]bool, len(r.BuiltinHooks))
	for _, h := range r.BuiltinHooks {
		r.builtinHookSet[h] = true
	}
	r.classBaseSet = make(map[string]bool, len(r.ClassBases))
	for _, b := range r.ClassBases {
		r.classBaseSet[b] = true
	}
	return r, nil
}

// roleFlag reports whether the lowercased name contains any keyword of the
// given role.
func (r detectorRules) roleFlag(role, name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range r.RoleFlags[role] {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// isRecognizedBase reports whether a superclass name marks a component.
func (r detectorRules) isRecognizedBase(base string) bool {
	return r.classBaseSet[base]
}

// isBuiltinHook reports whether the hook ships with the framework.
func (r detectorRules) isBuiltinHook(name string) bool {
	return r.builtinHookSet[name]
}

// isHookName applies the custom-hook naming rule: a use prefix followed by
// at least one more character.
func isHookName(name string) bool {
	return strings.HasPrefix(name, "use") && len(name) > 3
}

// isHandlerName reports whether a nested function name looks like an event
// handler, and which event it targets. The first matching event keyword
// wins; prefix-only matches are tagged unknown.
func (r detectorRules) isHandlerName(name string) (outbound.EventType, bool) {
	lower := strings.ToLower(name)
	matched := false
	for _, prefix := range r.HandlerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			matched = true
			break
		}
	}
	event := outbound.EventUnknown
	for _, rule := range r.EventKeywords {
		if strings.Contains(lower, rule.Keyword) {
			event = outbound.EventType(rule.Event)
			matched = true
			break
		}
	}
	if !matched {
		return outbound.EventUnknown, false
	}
	return event, true
}

// lifecyclePhase returns the phase of a recognized class lifecycle method.
func (r detectorRules) lifecyclePhase(method string) (outbound.LifecyclePhase, bool) {
	phase, ok := r.LifecycleMethods[method]
	return outbound.LifecyclePhase(phase), ok
}
