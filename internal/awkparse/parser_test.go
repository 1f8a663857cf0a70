package awkparse

import (
	"testing"

	"github.com/awklsp/awk-languageserver/internal/symbol"
)

type event struct {
	kind string
	args []any
}

type recordingHandler struct {
	events   []event
	modeHint bool
	gotMode  bool
	baseName string
	gotBase  bool
}

func (h *recordingHandler) OnDefine(kind symbol.Kind, scope, name string, line, col int, doc string) {
	h.events = append(h.events, event{"define", []any{kind, scope, name, line, col, doc}})
}
func (h *recordingHandler) OnUse(kind symbol.Kind, scope, name string, line, col int, isDefine bool) {
	h.events = append(h.events, event{"use", []any{kind, scope, name, line, col, isDefine}})
}
func (h *recordingHandler) OnInclude(filename string, relative bool, line, col, length int) {
	h.events = append(h.events, event{"include", []any{filename, relative, line, col, length}})
}
func (h *recordingHandler) OnMessage(sev Severity, subType, msg string, line, col, length int) {
	h.events = append(h.events, event{"message", []any{sev, subType, msg, line, col, length}})
}
func (h *recordingHandler) OnFunctionCall(isStart bool, name string, line, col int) {
	h.events = append(h.events, event{"call", []any{isStart, name, line, col}})
}
func (h *recordingHandler) OnParameter(index int, isStart bool, line, col int) {
	h.events = append(h.events, event{"param", []any{index, isStart, line, col}})
}
func (h *recordingHandler) OnArity(name string, parameters []string, firstOptional int) {
	h.events = append(h.events, event{"arity", []any{name, parameters, firstOptional}})
}
func (h *recordingHandler) BaseNameHint(name string) { h.baseName = name; h.gotBase = true }
func (h *recordingHandler) FileModeHint(gawk bool)   { h.modeHint = gawk; h.gotMode = true }

func (h *recordingHandler) find(kind string) []event {
	var out []event
	for _, e := range h.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestParseImplicitGlobalUsage(t *testing.T) {
	h := &recordingHandler{}
	Parse(`BEGIN { x = 1; print y }`, "foo", false, h)

	uses := h.find("use")
	var sawY bool
	for _, u := range uses {
		if u.args[2] == "y" {
			sawY = true
			if u.args[0] != symbol.Global {
				t.Errorf("expected y to be used as Global, got %v", u.args[0])
			}
		}
	}
	if !sawY {
		t.Fatal("expected a use event for y")
	}
}

func TestParseFunctionDeclEmitsDefineAndUse(t *testing.T) {
	h := &recordingHandler{}
	Parse(`function f(x,y){return x+y}`, "lib", false, h)

	defs := h.find("define")
	var sawFunc, sawX, sawY bool
	for _, d := range defs {
		switch d.args[2] {
		case "f":
			sawFunc = d.args[0] == symbol.Function
		case "x":
			sawX = d.args[0] == symbol.Parameter && d.args[1] == "f"
		case "y":
			sawY = d.args[0] == symbol.Parameter && d.args[1] == "f"
		}
	}
	if !sawFunc || !sawX || !sawY {
		t.Errorf("missing expected define events: func=%v x=%v y=%v", sawFunc, sawX, sawY)
	}

	arity := h.find("arity")
	if len(arity) != 1 || arity[0].args[0] != "f" {
		t.Fatalf("expected one arity event for f, got %+v", arity)
	}
	params := arity[0].args[1].([]string)
	if len(params) != 2 || params[0] != "x" || params[1] != "y" {
		t.Errorf("unexpected arity params: %v", params)
	}
}

func TestParseInclude(t *testing.T) {
	h := &recordingHandler{}
	Parse(`@include "lib.awk"`, "main", false, h)

	includes := h.find("include")
	if len(includes) != 1 {
		t.Fatalf("expected one include event, got %d", len(includes))
	}
	if includes[0].args[0] != "lib.awk" || includes[0].args[1] != true {
		t.Errorf("unexpected include event: %+v", includes[0])
	}
}

func TestParseNestedFunctionCallBracketing(t *testing.T) {
	h := &recordingHandler{}
	Parse(`BEGIN { print substr("abc", 1, 2) }`, "foo", false, h)

	calls := h.find("call")
	if len(calls) != 2 {
		t.Fatalf("expected a start and end call event, got %d: %+v", len(calls), calls)
	}
	if calls[0].args[0] != true || calls[0].args[1] != "substr" {
		t.Errorf("expected call-start for substr, got %+v", calls[0])
	}
	if calls[1].args[0] != false {
		t.Errorf("expected call-end for substr, got %+v", calls[1])
	}

	params := h.find("param")
	// 3 arguments => 3 start + 3 end + 1 sentinel (-1) at the close.
	var sentinel bool
	for _, pm := range params {
		if pm.args[0] == -1 {
			sentinel = true
		}
	}
	if !sentinel {
		t.Error("expected a -1 sentinel parameter event at the call close")
	}
}

func TestParseShebangOverridesMode(t *testing.T) {
	h := &recordingHandler{}
	Parse("#!/usr/bin/gawk -f\nBEGIN { print typeof(1) }", "foo", false, h)

	if !h.gotMode || !h.modeHint {
		t.Error("expected FileModeHint(true) from the gawk shebang despite ambientGawk=false")
	}
}

func TestParseConstantsSuffixSuppressesBaseNameHint(t *testing.T) {
	h := &recordingHandler{}
	Parse(`BEGIN { x = 1 }`, "ErrorConstants", false, h)
	if h.gotBase {
		t.Error("expected BaseNameHint to be suppressed for a file ending in Constants")
	}
}

func TestParseDoesNotHangOnGarbageInput(t *testing.T) {
	h := &recordingHandler{}
	Parse(`) ) ) { { {`, "garbage", false, h)
	// No assertion beyond: Parse must return, proving parseProgram's
	// no-progress guard advances past tokens the grammar rejects.
}
