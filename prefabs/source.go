package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

//go:embed *.yaml scripts/*.tengo
var embedded embed.FS

// Source resolves prefab and script names. Files under Dir on disk win over
// the copies in FS, so a running game picks up edits made in the source
// tree while a shipped binary still has everything it needs.
type Source struct {
	Dir string
	FS  fs.FS
}

// Default overlays ./prefabs on the prefabs built into the binary.
var Default = &Source{Dir: "prefabs", FS: embedded}

// Prefab reads a prefab spec such as "lilith.yaml" or "prefabs/lilith.yaml".
func (s *Source) Prefab(name string) ([]byte, error) {
	return s.read(PrefabName(name))
}

// Script reads a behaviour script such as "lilith.tengo".
func (s *Source) Script(name string) ([]byte, error) {
	return s.read(path.Join("scripts", ScriptName(name)))
}

func (s *Source) read(name string) ([]byte, error) {
	if s.Dir != "" {
		data, err := os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(name)))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if s.FS == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return fs.ReadFile(s.FS, name)
}

// Load reads a prefab spec from Default.
func Load(name string) ([]byte, error) {
	return Default.Prefab(name)
}

// LoadScript reads a behaviour script from Default.
func LoadScript(name string) ([]byte, error) {
	return Default.Script(name)
}

// PrefabName is the name a prefab file is loaded by: its base name.
func PrefabName(p string) string {
	return path.Base(filepath.ToSlash(p))
}

// ScriptName is the name a script is referenced by from a prefab's
// behavior_script field: its base name.
func ScriptName(p string) string {
	return path.Base(filepath.ToSlash(p))
}
