// Package watch follows filesystem changes under a root directory and
// reports them through a handler, with the same base-name glob filtering the
// finder applies to its candidates.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Event classifies a filesystem change.
type Event string

const (
	EventCreate Event = "create"
	EventModify Event = "modify"
	EventDelete Event = "delete"
	EventRename Event = "rename"
	EventChmod  Event = "chmod"
)

// ParseEvent validates an event name from user input.
func ParseEvent(s string) (Event, error) {
	switch Event(strings.ToLower(s)) {
	case EventCreate:
		return EventCreate, nil
	case EventModify:
		return EventModify, nil
	case EventDelete:
		return EventDelete, nil
	case EventRename:
		return EventRename, nil
	case EventChmod:
		return EventChmod, nil
	default:
		return "", fmt.Errorf("watch: unknown event %q", s)
	}
}

// Options configures a Watch call.
type Options struct {
	// Events filters which change types are reported. Empty means all.
	Events []Event

	// Recursive registers every subdirectory under the root, and newly
	// created ones as they appear.
	Recursive bool

	// Pattern and IgnorePattern are base-name globs applied to every
	// event, mirroring the finder's include/exclude semantics.
	Pattern       string
	IgnorePattern string

	// IncludeHidden reports dot-files and descends into dot-dirs.
	IncludeHidden bool

	// Timeout stops watching after the duration elapses. Zero means
	// watch until the context is canceled.
	Timeout time.Duration

	Logger *zap.Logger
}

// Message describes one reported change.
type Message struct {
	Path  string    `json:"path"`
	Name  string    `json:"name"`
	Event Event     `json:"event"`
	Size  int64     `json:"size"`
	IsDir bool      `json:"is_dir"`
	Time  time.Time `json:"time"`
}

// Handler processes one change. Returning an error stops the watch.
type Handler func(ctx context.Context, msg Message) error

// Watch blocks, reporting matching changes under root to handler until the
// context is canceled or the timeout elapses.
func Watch(ctx context.Context, root string, opts Options, handler Handler) error {
	if handler == nil {
		handler = func(ctx context.Context, msg Message) error {
			fmt.Printf("%s: %s\n", strings.ToUpper(string(msg.Event)), msg.Path)
			return nil
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("watch: register %s: %w", root, err)
	}
	if opts.Recursive {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			if !opts.IncludeHidden && path != root && isHidden(path) {
				return filepath.SkipDir
			}
			if err := watcher.Add(path); err != nil {
				logger.Warn("could not register directory",
					zap.String("dir", path), zap.Error(err))
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("watch: register subdirectories: %w", err)
		}
	}

	wanted := eventSet(opts.Events)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			kind, relevant := classify(ev, wanted)
			if !relevant {
				continue
			}

			var info os.FileInfo
			if kind != EventDelete && kind != EventRename {
				info, err = os.Stat(ev.Name)
				if err != nil {
					logger.Warn("could not stat changed path",
						zap.String("path", ev.Name), zap.Error(err))
					continue
				}
				if opts.Recursive && info.IsDir() && kind == EventCreate {
					if err := watcher.Add(ev.Name); err != nil {
						logger.Warn("could not register new directory",
							zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}

			name := filepath.Base(ev.Name)
			if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
				continue
			}
			if opts.Pattern != "" {
				if ok, _ := filepath.Match(opts.Pattern, name); !ok {
					continue
				}
			}
			if opts.IgnorePattern != "" {
				if ok, _ := filepath.Match(opts.IgnorePattern, name); ok {
					continue
				}
			}

			msg := Message{
				Path:  ev.Name,
				Name:  name,
				Event: kind,
				Time:  time.Now(),
			}
			if info != nil {
				msg.Size = info.Size()
				msg.IsDir = info.IsDir()
				msg.Time = info.ModTime()
			}
			if err := handler(ctx, msg); err != nil {
				return err
			}
		}
	}
}

// classify maps an fsnotify op onto the first matching wanted event.
func classify(ev fsnotify.Event, wanted map[Event]bool) (Event, bool) {
	switch {
	case ev.Has(fsnotify.Create) && wanted[EventCreate]:
		return EventCreate, true
	case ev.Has(fsnotify.Write) && wanted[EventModify]:
		return EventModify, true
	case ev.Has(fsnotify.Remove) && wanted[EventDelete]:
		return EventDelete, true
	case ev.Has(fsnotify.Rename) && wanted[EventRename]:
		return EventRename, true
	case ev.Has(fsnotify.Chmod) && wanted[EventChmod]:
		return EventChmod, true
	default:
		return "", false
	}
}

func eventSet(events []Event) map[Event]bool {
	set := make(map[Event]bool, 5)
	if len(events) == 0 {
		for _, e := range []Event{EventCreate, EventModify, EventDelete, EventRename, EventChmod} {
			set[e] = true
		}
		return set
	}
	for _, e := range events {
		set[e] = true
	}
	return set
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
