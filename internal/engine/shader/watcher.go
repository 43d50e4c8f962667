package shader

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/hello3d/internal/logger"
)

// Watcher flags programs whose source files changed on disk. Events arrive on
// a background goroutine; GL work happens only when the render thread calls
// Poll or ReloadChanged.
type Watcher struct {
	fs  *fsnotify.Watcher
	log *zap.Logger

	mu       sync.Mutex
	programs []*Program
	byPath   map[string][]*Program
	dirs     map[string]struct{}
	dirty    map[*Program]struct{}
	closed   bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher starts an empty watcher.
func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:     fsw,
		log:    logger.Named("shader"),
		byPath: make(map[string][]*Program),
		dirs:   make(map[string]struct{}),
		dirty:  make(map[*Program]struct{}),
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Add watches the source files of p. Programs built only from embedded
// sources are accepted and never reported. On error nothing is registered.
func (w *Watcher) Add(p *Program) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("shader watcher closed")
	}

	var paths, added []string
	for _, path := range p.Paths() {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		paths = append(paths, abs)
	}
	for _, abs := range paths {
		// Editors often replace files by rename, so watch the directory.
		dir := filepath.Dir(abs)
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			for _, d := range added {
				_ = w.fs.Remove(d)
				delete(w.dirs, d)
			}
			return err
		}
		w.dirs[dir] = struct{}{}
		added = append(added, dir)
	}

	w.programs = append(w.programs, p)
	for _, abs := range paths {
		w.byPath[abs] = append(w.byPath[abs], p)
	}
	return nil
}

// Poll returns the programs changed since the last call, in Add order.
func (w *Watcher) Poll() []*Program {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.dirty) == 0 {
		return nil
	}
	var changed []*Program
	for _, p := range w.programs {
		if _, ok := w.dirty[p]; ok {
			changed = append(changed, p)
		}
	}
	w.dirty = make(map[*Program]struct{})
	return changed
}

// ReloadChanged reloads every changed program and returns how many succeeded.
// Failures are logged and leave the previous program active.
func (w *Watcher) ReloadChanged() int {
	n := 0
	for _, p := range w.Poll() {
		if err := p.Reload(); err != nil {
			w.log.Error("reload failed, keeping previous program",
				zap.Strings("paths", p.Paths()),
				zap.Error(err),
			)
			continue
		}
		n++
	}
	return n
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	w.wg.Wait()
	return w.fs.Close()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(e)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(e fsnotify.Event) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) && !e.Has(fsnotify.Rename) {
		return
	}
	abs, err := filepath.Abs(e.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.byPath[abs] {
		w.dirty[p] = struct{}{}
	}
	if len(w.byPath[abs]) > 0 {
		w.log.Debug("source changed", zap.String("path", abs), zap.String("op", e.Op.String()))
	}
}
