// Package finder implements the toolbox's file discovery core: a bounded
// depth directory walk with include/exclude glob filters, per-candidate
// access checks and metadata collection.
//
// Depth convention: entries directly under the walk root are at depth 0 and
// depth counts directory levels below the root. A MaxDepth of n retains
// candidates at depth <= n and never descends further; MaxDepth 0 disables
// the bound. The walk is single-threaded and synchronous; every candidate is
// accounted for in exactly one of returned, excluded, access-denied or
// errors-found, so the counters always sum to TotalFiles.
package finder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// Invocation-level failures. Per-entry failures are never surfaced as
// errors; they land in the Result counters instead.
var (
	ErrInvalidDepth = errors.New("finder: max depth must not be negative")
	ErrInvalidPath  = errors.New("finder: path is neither a file nor a directory")
)

// Options configures a single GetFiles invocation.
type Options struct {
	// IncludePattern retains only candidates whose base name matches this
	// glob. Empty means include everything.
	IncludePattern string

	// ExcludePatterns drops candidates whose base name matches any of
	// these globs. Exclusion is applied after inclusion.
	ExcludePatterns []string

	// MaxDepth bounds the walk; 0 means unlimited.
	MaxDepth int

	// FollowSymlinks controls whether symlinked directories are
	// traversed. When false they are reported as candidate entries
	// instead.
	FollowSymlinks bool

	// Access is the permission class every candidate must hold. Defaults
	// to AccessRead.
	Access AccessType

	// Logger receives per-entry warnings. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Result is the aggregate produced by one GetFiles invocation.
type Result struct {
	TotalFiles        int           `json:"total_files"`
	ReturnedFiles     int           `json:"returned_files"`
	ExcludedFiles     int           `json:"excluded_files"`
	AccessDeniedFiles int           `json:"access_denied_files"`
	ErrorsFound       int           `json:"errors_found"`
	MaxDepth          int           `json:"max_depth"`
	ActualDepth       int           `json:"actual_depth"`
	Files             []FileDetails `json:"files"`
}

// workItem is one pending directory on the walk's explicit work list.
// depth is the depth of the directory's immediate children.
type workItem struct {
	dir   string
	depth int
}

// GetFiles walks path and returns the files that survive the access check
// and the include/exclude filters, together with the bookkeeping counters.
// An empty path defaults to the current working directory. Unreadable
// directories and symlink cycles are recorded in ErrorsFound and skipped;
// only invalid arguments and an unusable root abort the invocation.
func GetFiles(path string, opts Options) (*Result, error) {
	if opts.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, opts.MaxDepth)
	}
	m, err := compileMatcher(opts.IncludePattern, opts.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	access := opts.Access
	if access == 0 {
		access = AccessRead
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("finder: resolve working directory: %w", err)
		}
		path = wd
	}
	path = filepath.Clean(path)

	res := &Result{
		MaxDepth: opts.MaxDepth,
		Files:    []FileDetails{},
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	w := &walker{
		opts:    opts,
		access:  access,
		match:   m,
		logger:  logger,
		res:     res,
		visited: map[string]struct{}{},
	}

	if !info.IsDir() {
		w.candidate(path, filepath.Base(path))
		return res, nil
	}

	if opts.FollowSymlinks {
		if real, err := filepath.EvalSymlinks(path); err == nil {
			w.visited[real] = struct{}{}
		}
	}
	w.run(path)
	return res, nil
}

// walker holds the state of one in-flight invocation. It is never shared
// between goroutines.
type walker struct {
	opts    Options
	access  AccessType
	match   *matcher
	logger  *zap.Logger
	res     *Result
	visited map[string]struct{}
	scratch []byte
}

// run drains the work list iteratively; directory recursion on the call
// stack would make deep trees and the cycle guard harder to reason about.
func (w *walker) run(root string) {
	w.scratch = make([]byte, godirwalk.MinimumScratchBufferSize)
	work := []workItem{{dir: root, depth: 0}}

	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]

		dirents, err := godirwalk.ReadDirents(item.dir, w.scratch)
		if err != nil {
			// Unreadable mid-walk: the directory itself is a
			// candidate that errored.
			w.logger.Warn("unreadable directory",
				zap.String("dir", item.dir), zap.Error(err))
			w.res.TotalFiles++
			w.res.ErrorsFound++
			continue
		}
		// ReadDirents yields entries in filesystem order; sorting keeps
		// repeated runs over an unmodified tree byte-identical.
		sort.Sort(dirents)
		if len(dirents) > 0 && item.depth > w.res.ActualDepth {
			w.res.ActualDepth = item.depth
		}

		var subdirs []workItem
		for _, dirent := range dirents {
			full := filepath.Join(item.dir, dirent.Name())

			if dirent.IsDir() {
				if next, ok := w.descend(full, item.depth); ok {
					subdirs = append(subdirs, next)
				}
				continue
			}
			if dirent.IsSymlink() {
				if target, err := os.Stat(full); err == nil && target.IsDir() {
					if !w.opts.FollowSymlinks {
						// Not traversed, but still a
						// candidate entry.
						w.candidate(full, dirent.Name())
						continue
					}
					if next, ok := w.descendLink(full, item.depth); ok {
						subdirs = append(subdirs, next)
					}
					continue
				}
				// Dangling or file symlink: plain candidate.
			}
			w.candidate(full, dirent.Name())
		}
		// Reverse-push so the LIFO work list visits subdirectories in
		// sorted order.
		for i := len(subdirs) - 1; i >= 0; i-- {
			work = append(work, subdirs[i])
		}
	}
}

// descend decides whether a plain subdirectory is walked, honoring the
// depth bound and registering its identity for the cycle guard.
func (w *walker) descend(dir string, parentDepth int) (workItem, bool) {
	childDepth := parentDepth + 1
	if w.opts.MaxDepth > 0 && childDepth > w.opts.MaxDepth {
		return workItem{}, false
	}
	if w.opts.FollowSymlinks {
		if real, err := filepath.EvalSymlinks(dir); err == nil {
			if _, seen := w.visited[real]; seen {
				// Already walked through a symlink alias; its
				// contents are accounted for.
				w.logger.Debug("directory already visited",
					zap.String("dir", dir), zap.String("target", real))
				return workItem{}, false
			}
			w.visited[real] = struct{}{}
		}
	}
	return workItem{dir: dir, depth: childDepth}, true
}

// descendLink is descend for symlinked directories: the resolved identity
// must not have been seen before, otherwise the revisit is recorded as an
// error instead of walking into a cycle.
func (w *walker) descendLink(dir string, parentDepth int) (workItem, bool) {
	childDepth := parentDepth + 1
	if w.opts.MaxDepth > 0 && childDepth > w.opts.MaxDepth {
		return workItem{}, false
	}
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		w.logger.Warn("unresolvable symlink", zap.String("path", dir), zap.Error(err))
		w.res.TotalFiles++
		w.res.ErrorsFound++
		return workItem{}, false
	}
	if _, seen := w.visited[real]; seen {
		w.logger.Warn("symlink cycle detected",
			zap.String("path", dir), zap.String("target", real))
		w.res.TotalFiles++
		w.res.ErrorsFound++
		return workItem{}, false
	}
	w.visited[real] = struct{}{}
	return workItem{dir: dir, depth: childDepth}, true
}

// candidate pushes one discovered entry through the classification
// pipeline: access check, then filters, then detail extraction. Exactly one
// counter is incremented per candidate.
func (w *walker) candidate(path, name string) {
	w.res.TotalFiles++

	if !CheckAccess(path, w.access) {
		w.res.AccessDeniedFiles++
		return
	}
	if !w.match.matches(name) {
		w.res.ExcludedFiles++
		return
	}
	det, err := GetFileDetails(path)
	if err != nil {
		w.logger.Warn("detail extraction failed", zap.String("path", path), zap.Error(err))
		w.res.ErrorsFound++
		return
	}
	w.res.Files = append(w.res.Files, det)
	w.res.ReturnedFiles++
}
