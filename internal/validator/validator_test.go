package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/wayfinder/internal/scenario"
)

func TestValidateScenario(t *testing.T) {
	// 1. Valid script
	valid, err := scenario.Parse([]byte(`
name: tabs
routes:
  Home: {}
  Tabs: {}
  Mail: {}
  Unused: {}
steps:
  - op: set
    names: [Home, Tabs]
  - op: nest
    container: inbox
    parent: main
    name: Tabs
  - op: push
    container: inbox
    name: Mail
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := ValidateScenario(valid); err != nil {
		t.Errorf("valid scenario rejected: %v", err)
	}
	if got := UnusedRoutes(valid); len(got) != 1 || got[0] != "Unused" {
		t.Errorf("expected [Unused], got %v", got)
	}

	// 2. Missing route and container used before nest
	broken, err := scenario.Parse([]byte(`
name: broken
routes:
  Home: {}
steps:
  - op: push
    name: Ghost
  - op: push
    container: inbox
    name: Home
  - op: nest
    container: inbox
    parent: nowhere
    name: Home
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	err = ValidateScenario(broken)
	if err == nil {
		t.Fatal("expected errors for broken scenario")
	}
	for _, want := range []string{
		"found 3 errors",
		"step 1 (push): missing route 'Ghost'",
		"step 2 (push): container 'inbox' does not exist yet",
		"step 3 (nest): parent container 'nowhere' does not exist yet",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestValidateScenario_MailFixture(t *testing.T) {
	sc, err := scenario.Load("../scenario/testdata/mail.yaml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := ValidateScenario(sc); err != nil {
		t.Errorf("mail fixture rejected: %v", err)
	}
}
