// Package watch re-renders model cards when their source files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/featrix/modelcard/internal/output"
	"github.com/featrix/modelcard/internal/render"
	"github.com/featrix/modelcard/internal/schema"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Job pairs a model-card source with the file it renders to.
type Job struct {
	Source string
	Output string
}

// Result reports one render attempt.
type Result struct {
	Job    Job
	Issues []schema.Issue
	Err    error
}

// Config holds watcher configuration.
type Config struct {
	Jobs     []Job
	Format   output.Format
	Mode     output.TextMode
	Debounce time.Duration

	// Validate checks each source against the model card schema and logs
	// the issues before rendering.
	Validate bool

	// OnRender is called after every render attempt.
	OnRender func(Result)
}

// Watcher watches model-card sources with per-file debouncing.
type Watcher struct {
	config   Config
	renderer *render.Renderer
	log      logrus.FieldLogger
	watcher  *fsnotify.Watcher

	jobs map[string]Job

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// New creates a watcher. Source directories are watched rather than the
// files themselves so editors that replace files on save are followed.
func New(cfg Config, r *render.Renderer, log logrus.FieldLogger) (*Watcher, error) {
	if len(cfg.Jobs) == 0 {
		return nil, errors.New("watch: no sources")
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Format == "" {
		cfg.Format = output.DefaultFormat
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		config:   cfg,
		renderer: r,
		log:      log,
		watcher:  fsWatcher,
		jobs:     make(map[string]Job, len(cfg.Jobs)),
		pending:  make(map[string]*time.Timer),
	}

	dirs := make(map[string]bool)
	for _, job := range cfg.Jobs {
		src, err := filepath.Abs(job.Source)
		if err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("resolve %s: %w", job.Source, err)
		}
		w.jobs[src] = job

		dir := filepath.Dir(src)
		if dirs[dir] {
			continue
		}
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	return w, nil
}

// Run renders every job once, then re-renders on change until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for src, job := range w.jobs {
		w.process(src, job)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, tracked := w.jobs[name]; tracked {
				w.schedule(name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			if err != nil {
				w.log.WithError(err).Warn("watcher error")
			}
		}
	}
}

// schedule debounces a render of src.
func (w *Watcher) schedule(src string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pending[src]; exists && timer.Stop() {
		w.wg.Done()
	}

	w.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.config.Debounce, func() {
		defer w.wg.Done()

		w.mu.Lock()
		if w.pending[src] == timer {
			delete(w.pending, src)
		}
		w.mu.Unlock()

		w.process(src, w.jobs[src])
	})
	w.pending[src] = timer
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for src, timer := range w.pending {
		if timer.Stop() {
			w.wg.Done()
		}
		delete(w.pending, src)
	}
	w.mu.Unlock()

	w.wg.Wait()
	w.watcher.Close()
}

// process renders one job. Failures are logged and reported; the previous
// output is left in place.
func (w *Watcher) process(src string, job Job) {
	log := w.log.WithFields(logrus.Fields{"source": job.Source, "output": job.Output})
	res := Result{Job: job}
	defer func() {
		if w.config.OnRender != nil {
			w.config.OnRender(res)
		}
	}()

	data, err := readWithRetry(src)
	if err != nil {
		res.Err = err
		log.WithError(err).Error("read model card")
		return
	}

	if w.config.Validate {
		issues, err := schema.Validate(data)
		if err == nil {
			res.Issues = issues
			for _, is := range issues {
				log.WithField("field", is.Field).Warn(is.Description)
			}
		}
	}

	if err := w.renderer.ToFile(data, job.Output, w.config.Format, w.config.Mode); err != nil {
		res.Err = err
		log.WithError(err).Error("render failed")
		return
	}
	log.Info("rendered")
}

// readWithRetry tolerates the brief window in which an editor has truncated
// or moved the file.
func readWithRetry(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	for attempts := 0; attempts < 3; attempts++ {
		data, err = os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if attempts < 2 {
			time.Sleep(time.Duration(50*(attempts+1)) * time.Millisecond)
		}
	}
	return nil, fmt.Errorf("read model card: %w", err)
}
