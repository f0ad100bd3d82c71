package commands_test

import (
	"strings"
	"testing"

	"craftdoist/internal/commands"
)

func TestRegistry_FindByAlias(t *testing.T) {
	for alias, name := range map[string]string{"i": "import", "lists": "projects", "create": "add", "close": "done"} {
		cmd, ok := commands.DefaultRegistry.Find(alias)
		if !ok {
			t.Errorf("expected alias %q to be registered", alias)
			continue
		}
		if cmd.Name() != name {
			t.Errorf("expected %q to resolve to %q, got %q", alias, name, cmd.Name())
		}
	}
}

func TestRegistry_AllIsSortedAndUnique(t *testing.T) {
	var names []string
	for _, cmd := range commands.DefaultRegistry.All() {
		names = append(names, cmd.Name())
	}
	expected := "add done help import login logout projects show version"
	if got := strings.Join(names, " "); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestRegistry_Conflict(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ImportCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := r.Register(&commands.ImportCmd{})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	expected := `command import: "import" already registered by import`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
