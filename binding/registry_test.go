package binding

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/tetratelabs/wazero/api"

	surferrors "github.com/wippyai/echo-surface/errors"
)

func defineEcho(t *testing.T, reg *Registry, path string) {
	t.Helper()
	ns, err := reg.Namespace(path)
	if err != nil {
		t.Fatalf("Namespace(%q): %v", path, err)
	}
	ns.DefineFunc("echo-i32", func(context.Context, api.Module, []uint64) {}, nil, nil)
}

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry()
	defineEcho(t, reg, "echo:fixture/surface@1.2.0")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"exact version", "echo:fixture/surface@1.2.0#echo-i32", false},
		{"older request satisfied", "echo:fixture/surface@1.0.0#echo-i32", false},
		{"newer request rejected", "echo:fixture/surface@1.3.0#echo-i32", true},
		{"major mismatch", "echo:fixture/surface@2.0.0#echo-i32", true},
		{"unknown function", "echo:fixture/surface@1.0.0#echo-i999", true},
		{"unknown namespace", "echo:fixture/other@1.0.0#echo-i32", true},
		{"missing separator", "echo:fixture/surface@1.0.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := reg.Resolve(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if f.Name != "echo-i32" {
				t.Errorf("resolved %q, want echo-i32", f.Name)
			}
		})
	}
}

func TestRegistry_NewestCompatibleWins(t *testing.T) {
	reg := NewRegistry()
	defineEcho(t, reg, "echo:fixture/surface@1.0.0")
	defineEcho(t, reg, "echo:fixture/surface@1.4.0")
	defineEcho(t, reg, "echo:fixture/surface@2.0.0")

	f, err := reg.Resolve("echo:fixture/surface@1.1.0#echo-i32")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f == nil {
		t.Fatal("expected a function definition")
	}

	// A versionless request means 0.0.0 and matches only major zero.
	if _, err := reg.Resolve("echo:fixture/surface#echo-i32"); err == nil {
		t.Fatal("versionless request should not match major 1 or 2")
	}
}

func TestRegistry_NamespaceReuse(t *testing.T) {
	reg := NewRegistry()
	ns1, err := reg.Namespace("echo:fixture/surface@1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	ns2, err := reg.Namespace("echo:fixture/surface@1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if ns1 != ns2 {
		t.Fatal("same path must return the same namespace")
	}

	if _, err := reg.Namespace("@1.0.0"); err == nil {
		t.Fatal("empty base must be rejected")
	}
	_, err = reg.Namespace("echo:fixture/surface@not-a-version")
	if err == nil {
		t.Fatal("bad version must be rejected")
	}
	if !stderrors.Is(err, &surferrors.Error{Phase: surferrors.PhaseBind, Kind: surferrors.KindInvalidInput}) {
		t.Fatalf("error = %v, want bind/invalid_input", err)
	}
}

func TestBinding_Register(t *testing.T) {
	reg := NewRegistry()
	b := newTestBinding()
	if err := b.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, name := range []string{"add", "echo-string", "echo-record-ptr", "buffer-new", "noop"} {
		if _, err := reg.Resolve(DefaultNamespace + "#" + name); err != nil {
			t.Errorf("Resolve(%s): %v", name, err)
		}
	}

	ns, err := reg.Namespace(DefaultNamespace)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(ns.Funcs()); got != 20 {
		t.Errorf("registered %d functions, want 20", got)
	}
}
