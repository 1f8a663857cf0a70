package symbol

import (
	"testing"

	"github.com/awklsp/awk-languageserver/internal/position"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{Global, "global variable"},
		{Local, "local variable"},
		{Parameter, "parameter"},
		{Function, "function"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestDefinitionRange(t *testing.T) {
	d := &Definition{Name: "count", Position: position.Position{Line: 2, Character: 4}}
	r := d.Range()
	if r.Start != (position.Position{Line: 2, Character: 4}) {
		t.Errorf("Start = %v", r.Start)
	}
	if r.End != (position.Position{Line: 2, Character: 9}) {
		t.Errorf("End = %v", r.End)
	}
}

func TestDefinitionArity(t *testing.T) {
	d := &Definition{Parameters: []string{"a", "b", "c"}}
	if got := d.Arity(); got != 3 {
		t.Errorf("Arity() = %d, want 3", got)
	}
}

func TestDefinitionInScope(t *testing.T) {
	fileScoped := &Definition{Name: "g", Scope: nil}
	fn := &Definition{Name: "f", Kind: Function}
	local := &Definition{Name: "x", Scope: fn}

	if !fileScoped.InScope(fn) {
		t.Error("file-scoped definition should be visible from any scope")
	}
	if !local.InScope(fn) {
		t.Error("local definition should be visible from its own function scope")
	}
	other := &Definition{Name: "g", Kind: Function}
	if local.InScope(other) {
		t.Error("local definition should not be visible from a different function scope")
	}
}

func TestUsageRange(t *testing.T) {
	u := Usage{Name: "total", Position: position.Position{Line: 0, Character: 0}}
	r := u.Range()
	if r.End.Character != 5 {
		t.Errorf("End.Character = %d, want 5", r.End.Character)
	}
}
