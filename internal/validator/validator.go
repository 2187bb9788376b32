package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/wayfinder/internal/scenario"
)

// ValidateScenario checks that every step refers to a declared route and to a
// container that exists at that point of the script, starting from the root
// container.
func ValidateScenario(sc *scenario.Scenario) error {
	// 1. Containers known before the first step
	root := sc.Container
	if root == "" {
		root = "main"
	}
	containers := map[string]bool{root: true}

	// 2. Walk the steps in order
	var errors []string
	for i, st := range sc.Steps {
		at := fmt.Sprintf("step %d (%s)", i+1, st.Op)

		if st.Op == scenario.OpNest {
			if !containers[st.Parent] {
				errors = append(errors, fmt.Sprintf("%s: parent container '%s' does not exist yet", at, st.Parent))
			}
			if containers[st.Container] {
				errors = append(errors, fmt.Sprintf("%s: container '%s' already exists", at, st.Container))
			}
			containers[st.Container] = true
		} else if st.Container != "" && !containers[st.Container] {
			errors = append(errors, fmt.Sprintf("%s: container '%s' does not exist yet", at, st.Container))
		}

		for _, name := range routeRefs(st) {
			if _, ok := sc.Routes[name]; !ok {
				errors = append(errors, fmt.Sprintf("%s: missing route '%s'", at, name))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

// UnusedRoutes returns the declared routes no step ever refers to, sorted.
func UnusedRoutes(sc *scenario.Scenario) []string {
	used := make(map[string]bool)
	for _, st := range sc.Steps {
		for _, name := range routeRefs(st) {
			used[name] = true
		}
	}
	var unused []string
	for name := range sc.Routes {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)
	return unused
}

func routeRefs(st scenario.Step) []string {
	switch st.Op {
	case scenario.OpPush, scenario.OpReplace, scenario.OpPopTo, scenario.OpMoveToTop, scenario.OpRemove, scenario.OpNest:
		return []string{st.Name}
	case scenario.OpSet:
		return st.Names
	}
	return nil
}
