package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/addonc/pkg/errors"
	"github.com/arthur-debert/addonc/pkg/logging"
	"github.com/arthur-debert/addonc/pkg/types"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher streams change events for a set of source roots. Directories
// created while watching are added as they appear.
type Watcher struct {
	w      *fsnotify.Watcher
	events chan types.ChangeEvent
	errs   chan error
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
	logger zerolog.Logger
}

// NewWatcher starts watching every directory below roots
func NewWatcher(roots ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatch, "create watcher")
	}

	w := &Watcher{
		w:      fw,
		events: make(chan types.ChangeEvent, 64),
		errs:   make(chan error, 8),
		done:   make(chan struct{}),
		logger: logging.GetLogger("watcher"),
	}

	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Events returns the translated change events. The channel is closed by Close.
func (w *Watcher) Events() <-chan types.ChangeEvent {
	return w.events
}

// Errors returns watch errors reported by the platform backend
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching and closes the event channel
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.w.Close()
		w.wg.Wait()
		close(w.events)
		close(w.errs)
	})
	return err
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrWatch, "walk %s", p)
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.w.Add(p); err != nil {
			return errors.Wrapf(err, errors.ErrWatch, "watch %s", p)
		}
		w.logger.Trace().Str("dir", p).Msg("Watching directory")
		return nil
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case fev, ok := <-w.w.Events:
			if !ok {
				return
			}
			ev, ok := translate(fev, os.Stat)
			if !ok {
				continue
			}
			// Watch new directories before the event is delivered so files
			// written into them right after are not missed
			if ev.Kind == types.ChangeCreated && ev.IsDir {
				if err := w.addRecursive(ev.Path); err != nil {
					w.report(err)
				}
			}
			select {
			case w.events <- ev:
			case <-w.done:
				return
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.report(errors.Wrap(err, errors.ErrWatch, "watch backend"))
		}
	}
}

// report delivers err without blocking the loop; overflow is logged
func (w *Watcher) report(err error) {
	select {
	case w.errs <- err:
	default:
		w.logger.Warn().Err(err).Msg("Dropped watch error")
	}
}

// translate maps an fsnotify event onto a ChangeEvent. Permission-only
// changes are dropped.
func translate(ev fsnotify.Event, stat func(string) (fs.FileInfo, error)) (types.ChangeEvent, bool) {
	out := types.ChangeEvent{Path: ev.Name}
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		out.Kind = types.ChangeRemoved
	case ev.Has(fsnotify.Create):
		out.Kind = types.ChangeCreated
	case ev.Has(fsnotify.Write):
		out.Kind = types.ChangeModified
	default:
		return out, false
	}
	if info, err := stat(ev.Name); err == nil {
		out.IsDir = info.IsDir()
	}
	return out, true
}
