// Package watch keeps generated assets current while the site runs in
// development mode.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// DefaultDebounce is the quiet period before a stage reruns.
const DefaultDebounce = 300 * time.Millisecond

// Stage is a unit of work rerun when files below its directories change.
type Stage struct {
	Name string
	Dirs []string
	// Ignore filters paths the stage produces itself.
	Ignore func(path string) bool
	Run    func(ctx context.Context) error
}

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	// UpdateInterval enables the periodic UpdateCheck when positive.
	UpdateInterval time.Duration
	UpdateCheck    func(ctx context.Context) error
}

// Watcher reruns stages on file changes. Stages run one at a time.
type Watcher struct {
	stages []Stage
	opts   Options
	fs     *fsnotify.Watcher

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]bool
	wake    chan struct{}
}

// New prepares a watcher for stages. Directories are resolved to absolute
// paths; missing ones are created so they can be watched.
func New(stages []Stage, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	resolved := make([]Stage, len(stages))
	for i, s := range stages {
		if s.Run == nil {
			return nil, fmt.Errorf("stage %q has no run function", s.Name)
		}
		s.Dirs = append([]string(nil), s.Dirs...)
		for j, dir := range s.Dirs {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", dir, err)
			}
			s.Dirs[j] = abs
		}
		resolved[i] = s
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	return &Watcher{
		stages:  resolved,
		opts:    opts,
		fs:      fw,
		timers:  map[string]*time.Timer{},
		pending: map[string]bool{},
		wake:    make(chan struct{}, 1),
	}, nil
}

// Run executes every stage once, then watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	for _, s := range w.stages {
		w.runStage(ctx, s)
	}

	for _, s := range w.stages {
		for _, dir := range s.Dirs {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create watched directory: %w", err)
			}
			addDirsRecursive(w.fs, dir)
		}
	}

	if w.opts.UpdateInterval > 0 && w.opts.UpdateCheck != nil {
		sched, err := newScheduler()
		if err != nil {
			return err
		}
		if err := sched.scheduleUpdateCheck(ctx, w.opts.UpdateInterval, w.opts.UpdateCheck); err != nil {
			_ = sched.stop()
			return err
		}
		sched.start()
		defer func() {
			if err := sched.stop(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx)
	}()

	slog.Info("Watching for changes", logfields.Count(len(w.stages)))
	w.loop(ctx)

	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	wg.Wait()
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(w.fs, ev.Name)
		}
	}
	for _, s := range w.stagesFor(ev.Name) {
		slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()), logfields.Stage(s.Name))
		w.trigger(s.Name)
	}
}

func (w *Watcher) stagesFor(path string) []Stage {
	var out []Stage
	for _, s := range w.stages {
		if s.Ignore != nil && s.Ignore(path) {
			continue
		}
		for _, dir := range s.Dirs {
			if within(dir, path) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func within(dir, path string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// trigger schedules stage after the debounce period.
func (w *Watcher) trigger(stage string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[stage]; ok {
		t.Stop()
	}
	w.timers[stage] = time.AfterFunc(w.opts.Debounce, func() {
		w.mu.Lock()
		w.pending[stage] = true
		w.mu.Unlock()
		select {
		case w.wake <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
		}
		w.mu.Lock()
		var due []Stage
		for _, s := range w.stages {
			if w.pending[s.Name] {
				due = append(due, s)
				delete(w.pending, s.Name)
			}
		}
		w.mu.Unlock()
		for _, s := range due {
			if ctx.Err() != nil {
				return
			}
			w.runStage(ctx, s)
		}
	}
}

func (w *Watcher) runStage(ctx context.Context, s Stage) {
	start := time.Now()
	if err := s.Run(ctx); err != nil {
		slog.Warn("Stage failed", logfields.Stage(s.Name), logfields.Error(err))
		return
	}
	slog.Info("Stage finished", logfields.Stage(s.Name),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
}

func addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent filters hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
