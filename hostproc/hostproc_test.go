package hostproc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/overbridge/bridge"
)

// shHost writes a shell script implementing the line protocol and returns a
// Host running it. The script answers greet and echo_args, errors on boom,
// and reports nomethod for everything else.
func shHost(t *testing.T) *Host {
	t.Helper()

	script := `#!/bin/sh
while read -r op handle method args; do
  if [ "$op" = "release" ]; then
    echo 'ok null'
    continue
  fi
  case "$method" in
    greet) echo 'ok "hello from sh"' ;;
    echo_args) printf 'ok %s\n' "$args" ;;
    boom) echo 'err kaboom' ;;
    *) echo 'nomethod' ;;
  esac
done
`
	path := filepath.Join(t.TempDir(), "host.sh")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	h := New("sh", path)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestInvokeRoundTrip(t *testing.T) {
	h := shHost(t)

	result, err := h.Invoke("obj1", "greet", nil)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result.AsString() != "hello from sh" {
		t.Errorf("result = %q, want hello from sh", result.AsString())
	}

	// Arguments survive the wire both ways.
	result, err = h.Invoke("obj1", "echo_args", []bridge.Value{
		bridge.IntValue(7), bridge.StringValue("hi"),
	})
	if err != nil {
		t.Fatalf("echo_args failed: %v", err)
	}
	if result.Type != bridge.TypeArray || len(result.ArrayVal) != 2 {
		t.Fatalf("echoed args = %+v, want 2-element array", result)
	}
	if result.ArrayVal[0].AsInt() != 7 || result.ArrayVal[1].AsString() != "hi" {
		t.Errorf("echoed args = %s", result.ToJSON())
	}
}

func TestMissingMethodMapsToNoSuchMethod(t *testing.T) {
	h := shHost(t)

	_, err := h.Invoke("obj1", "unknown_method", nil)
	if !errors.Is(err, bridge.ErrNoSuchMethod) {
		t.Errorf("error = %v, want ErrNoSuchMethod", err)
	}
}

func TestHostErrorPropagates(t *testing.T) {
	h := shHost(t)

	_, err := h.Invoke("obj1", "boom", nil)
	if err == nil || errors.Is(err, bridge.ErrNoSuchMethod) {
		t.Errorf("error = %v, want a host error distinct from ErrNoSuchMethod", err)
	}
}

func TestRelease(t *testing.T) {
	h := shHost(t)

	if err := h.Release("obj1"); err != nil {
		t.Errorf("Release failed: %v", err)
	}
}

func TestRejectsBadHandles(t *testing.T) {
	h := shHost(t)

	if _, err := h.Invoke(42, "greet", nil); err == nil {
		t.Error("expected error for non-string handle")
	}
	if _, err := h.Invoke("two words", "greet", nil); err == nil {
		t.Error("expected error for handle containing a space")
	}
}

// TestBridgeIntegration wires the subprocess host into a dispatch bridge:
// host overrides win, nomethod falls back to the native default.
func TestBridgeIntegration(t *testing.T) {
	h := shHost(t)

	b := bridge.New(h)
	if _, err := b.RegisterClass("Base", "",
		[]bridge.VirtualMethod{{Name: "greet"}, {Name: "do_something"}},
		map[string]bridge.DefaultFunc{
			"do_something": func(self *bridge.Trampoline, args []bridge.Value) (bridge.Value, error) {
				return bridge.StringValue("hello Base"), nil
			},
		}); err != nil {
		t.Fatalf("registering Base: %v", err)
	}

	inst, err := b.Create("Base", "obj1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	result, err := inst.Invoke("greet", nil)
	if err != nil {
		t.Fatalf("greet failed: %v", err)
	}
	if result.AsString() != "hello from sh" {
		t.Errorf("greet = %q, want host result", result.AsString())
	}

	result, err = inst.Invoke("do_something", nil)
	if err != nil {
		t.Fatalf("do_something failed: %v", err)
	}
	if result.AsString() != "hello Base" {
		t.Errorf("do_something = %q, want native default", result.AsString())
	}

	if err := inst.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
