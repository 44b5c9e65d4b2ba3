package tools

import (
	"context"
	"errors"
	"testing"
)

func textTool(name string, c Capability, text string) *Tool {
	return &Tool{
		Name:       name,
		Capability: c,
		Execute: func(ctx context.Context, args map[string]any) (Output, error) {
			return Output{Text: text}, nil
		},
	}
}

func mustRegister(t *testing.T, reg *Registry, tool *Tool) {
	t.Helper()
	if err := reg.Register(tool); err != nil {
		t.Fatalf("Register(%s) failed: %v", tool.Name, err)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("NewRegistry returned nil")
	}
	for _, c := range AllCapabilities {
		if reg.ForCapability(c) != nil {
			t.Errorf("new registry should bind nothing, got a tool for %s", c)
		}
	}
}

func TestRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(textTool("event_search", CapabilitySearch, "found")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if got := reg.ForCapability(CapabilitySearch); got == nil || got.Name != "event_search" {
		t.Fatalf("ForCapability returned %v", got)
	}
	if reg.ForCapability(CapabilityGenerate) != nil {
		t.Error("generate should not be bound")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg, textTool("dupe", CapabilitySearch, ""))

	if err := reg.Register(textTool("dupe", CapabilityGenerate, "")); !errors.Is(err, ErrToolAlreadyRegistered) {
		t.Errorf("expected ErrToolAlreadyRegistered, got %v", err)
	}
	if err := reg.Register(textTool("other", CapabilitySearch, "")); !errors.Is(err, ErrCapabilityBound) {
		t.Errorf("expected ErrCapabilityBound, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry()
	noop := func(ctx context.Context, args map[string]any) (Output, error) { return Output{}, nil }

	tests := []struct {
		name    string
		tool    *Tool
		wantErr error
	}{
		{"empty name", &Tool{Name: "", Capability: CapabilitySearch, Execute: noop}, ErrToolNameEmpty},
		{"nil execute", &Tool{Name: "test", Capability: CapabilitySearch}, ErrToolExecuteNil},
		{"no capability", &Tool{Name: "test", Execute: noop}, ErrToolCapabilityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.tool)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestInvokeValidatesArgs(t *testing.T) {
	reg := NewRegistry()

	mustRegister(t, reg, &Tool{
		Name:       "echo",
		Capability: CapabilityGenerate,
		Execute: func(ctx context.Context, args map[string]any) (Output, error) {
			msg, err := StringArg(args, "message")
			if err != nil {
				return Output{}, err
			}
			return Output{Text: "Echo: " + msg, References: []string{"https://lu.ma/x"}}, nil
		},
		Schema: ToolSchema{
			Required:   []string{"message"},
			Properties: map[string]Property{"message": {Type: "string"}},
		},
	})

	result, err := reg.Invoke(context.Background(), CapabilityGenerate, map[string]any{"message": "hello"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result.Output.Text != "Echo: hello" {
		t.Errorf("got result %q, want %q", result.Output.Text, "Echo: hello")
	}
	if len(result.Output.References) != 1 || result.Capability != CapabilityGenerate {
		t.Errorf("unexpected result metadata: %+v", result)
	}
	if !result.IsSuccess() {
		t.Error("expected IsSuccess to be true")
	}

	// Missing required arg
	if _, err = reg.Invoke(context.Background(), CapabilityGenerate, map[string]any{}); !errors.Is(err, ErrMissingRequiredArg) {
		t.Errorf("expected ErrMissingRequiredArg, got %v", err)
	}

	// Wrong arg type
	if _, err = reg.Invoke(context.Background(), CapabilityGenerate, map[string]any{"message": 42}); !errors.Is(err, ErrInvalidArgType) {
		t.Errorf("expected ErrInvalidArgType, got %v", err)
	}
}

func TestInvoke(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg, textTool("doc", CapabilityDocumentRead, "File: a.txt"))

	result, err := reg.Invoke(context.Background(), CapabilityDocumentRead, nil)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result.ToolName != "doc" || result.Output.Text != "File: a.txt" {
		t.Errorf("unexpected result: %+v", result)
	}

	result, err = reg.Invoke(context.Background(), CapabilitySearch, nil)
	if !errors.Is(err, ErrCapabilityUnavailable) {
		t.Errorf("expected ErrCapabilityUnavailable, got %v", err)
	}
	if result == nil || result.IsSuccess() {
		t.Error("unbound capability should return a failed result")
	}
}

func TestParseCapability(t *testing.T) {
	for in, want := range map[string]Capability{
		"":         CapabilityNone,
		"none":     CapabilityNone,
		"search":   CapabilitySearch,
		"document": CapabilityDocumentRead,
		"generate": CapabilityGenerate,
	} {
		got, err := ParseCapability(in)
		if err != nil || got != want {
			t.Errorf("ParseCapability(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseCapability("teleport"); err == nil {
		t.Error("expected error for unknown capability")
	}
	if CapabilityNone.String() != "none" {
		t.Errorf("CapabilityNone.String() = %q", CapabilityNone.String())
	}
}
