package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSourceOverlay(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lilith.yaml"), []byte("walk_speed: 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scripts", "lilith.tengo"), []byte("// disk\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src := &Source{Dir: dir, FS: embedded}

	tests := []struct {
		name   string
		read   func(string) ([]byte, error)
		arg    string
		prefix string
	}{
		{name: "disk prefab wins", read: src.Prefab, arg: "prefabs/lilith.yaml", prefix: "walk_speed: 7"},
		{name: "disk script wins", read: src.Script, arg: "lilith.tengo", prefix: "// disk"},
		{name: "embedded fallback", read: src.Prefab, arg: "turret.yaml", prefix: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := tc.read(tc.arg)
			if err != nil {
				t.Fatalf("read %s: %v", tc.arg, err)
			}
			if len(data) == 0 || !strings.HasPrefix(string(data), tc.prefix) {
				t.Fatalf("read %s = %q, want prefix %q", tc.arg, data, tc.prefix)
			}
		})
	}
}

func TestSourceMissing(t *testing.T) {
	src := &Source{Dir: t.TempDir()}
	if _, err := src.Prefab("lilith.yaml"); err == nil {
		t.Fatalf("expected an error without an embedded fallback")
	}
	if _, err := Default.Script("no_such_script.tengo"); err == nil {
		t.Fatalf("expected an error for a missing script")
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		fn   func(string) string
		in   string
		want string
	}{
		{fn: PrefabName, in: "prefabs/lilith.yaml", want: "lilith.yaml"},
		{fn: PrefabName, in: "lilith.yaml", want: "lilith.yaml"},
		{fn: ScriptName, in: "prefabs/scripts/lilith.tengo", want: "lilith.tengo"},
		{fn: ScriptName, in: "scripts/lilith.tengo", want: "lilith.tengo"},
	}
	for _, tc := range tests {
		if got := tc.fn(tc.in); got != tc.want {
			t.Fatalf("name of %q = %q, want %q", tc.in, got, tc.want)
		}
	}
}
