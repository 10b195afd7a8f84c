package prefabs

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a file has to stay quiet before its change is
// reported. Editors often save in several writes.
const settleDelay = 100 * time.Millisecond

type ChangeKind int

const (
	ChangePrefab ChangeKind = iota + 1
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangePrefab:
		return "prefab"
	case ChangeScript:
		return "script"
	}
	return "unknown"
}

// Change is a prefab or script file that changed on disk.
type Change struct {
	Kind ChangeKind
	// Name is what the file is loaded by, see PrefabName and ScriptName.
	Name string
	Path string
}

// ClassifyPath reports what kind of file path is, if it is one the game
// loads.
func ClassifyPath(path string) (Change, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return Change{Kind: ChangePrefab, Name: PrefabName(path), Path: path}, true
	case ".tengo":
		return Change{Kind: ChangeScript, Name: ScriptName(path), Path: path}, true
	}
	return Change{}, false
}

// Watcher reports prefab and script changes under a set of directories.
// Changes and Errors are closed once the watcher stops.
type Watcher struct {
	Changes chan Change
	Errors  chan error

	fs      *fsnotify.Watcher
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		fs:      fw,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Changes)
		close(w.Errors)
		close(w.done)
	}()

	pending := map[string]Change{}
	var settle <-chan time.Time
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			c, ok := ClassifyPath(event.Name)
			if !ok {
				continue
			}
			pending[c.Path] = c
			settle = time.After(settleDelay)
		case <-settle:
			settle = nil
			for _, p := range slices.Sorted(maps.Keys(pending)) {
				select {
				case w.Changes <- pending[p]:
				case <-w.closeCh:
					return
				}
			}
			clear(pending)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}
