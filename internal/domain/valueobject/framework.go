package valueobject

import "strings"

// Framework tags the UI framework a file targets, inferred once per file
// from its import statements rather than per component.
type Framework string

const (
	FrameworkReact   Framework = "react"
	FrameworkVue     Framework = "vue"
	FrameworkAngular Framework = "angular"
	FrameworkOther   Framework = "other"
)

// String returns the framework name.
func (f Framework) String() string {
	return string(f)
}

// DetectFramework inspects the import source paths of a file and returns the
// first recognized framework; files importing none of them are tagged other.
func DetectFramework(importPaths []string) Framework {
	for _, p := range importPaths {
		switch {
		case p == "react" || strings.HasPrefix(p, "react-") || strings.HasPrefix(p, "react/"):
			return FrameworkReact
		case p == "vue" || strings.HasPrefix(p, "vue-") || strings.HasPrefix(p, "@vue/"):
			return FrameworkVue
		case strings.HasPrefix(p, "@angular/"):
			return FrameworkAngular
		}
	}
	return FrameworkOther
}
