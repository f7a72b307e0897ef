// Package finder is a thin facade over the internal implementation,
// offering a stable import path for library consumers of the satchel
// toolbox.
package finder

import (
	"context"

	internal "github.com/TFMV/satchel/internal/finder"
	internalwatch "github.com/TFMV/satchel/internal/watch"
)

// Re-export all the types and constants from the internal packages
type (
	// Options configures a single GetFiles invocation.
	Options = internal.Options

	// Result is the aggregate produced by one GetFiles invocation.
	Result = internal.Result

	// FileDetails is the metadata record produced for each matched file.
	FileDetails = internal.FileDetails

	// AccessType is the set of permission classes a candidate must hold.
	AccessType = internal.AccessType

	// Format selects how a Result is rendered.
	Format = internal.Format

	// Re-export watch types and functions
	WatchEvent   = internalwatch.Event
	WatchOptions = internalwatch.Options
	WatchMessage = internalwatch.Message
	WatchHandler = internalwatch.Handler
)

// Re-export all the constants
const (
	// Access classes
	AccessRead    = internal.AccessRead
	AccessWrite   = internal.AccessWrite
	AccessExecute = internal.AccessExecute

	// Output formats
	FormatPlain      = internal.FormatPlain
	FormatText       = internal.FormatText
	FormatJSON       = internal.FormatJSON
	FormatJSONPretty = internal.FormatJSONPretty
	FormatCSV        = internal.FormatCSV
	FormatHTML       = internal.FormatHTML

	// Watch event constants
	EventCreate = internalwatch.EventCreate
	EventModify = internalwatch.EventModify
	EventDelete = internalwatch.EventDelete
	EventRename = internalwatch.EventRename
	EventChmod  = internalwatch.EventChmod
)

// Re-export the sentinel errors so callers can test with errors.Is.
var (
	ErrInvalidDepth  = internal.ErrInvalidDepth
	ErrInvalidPath   = internal.ErrInvalidPath
	ErrInvalidFormat = internal.ErrInvalidFormat
)

// GetFiles walks path and returns the files that survive the access check
// and the include/exclude filters, together with the bookkeeping counters.
func GetFiles(path string, opts Options) (*Result, error) {
	return internal.GetFiles(path, opts)
}

// GetFileDetails returns the metadata record for a single path.
func GetFileDetails(path string) (FileDetails, error) {
	return internal.GetFileDetails(path)
}

// FormatOutput renders a Result in the requested format.
func FormatOutput(r *Result, format Format) (string, error) {
	return internal.FormatOutput(r, format)
}

// Formats lists the supported output formats.
func Formats() []Format {
	return internal.Formats()
}

// ParseFormat validates a format name from user input.
func ParseFormat(s string) (Format, error) {
	return internal.ParseFormat(s)
}

// ParseAccessType parses a subset of "rwx" into an AccessType.
func ParseAccessType(s string) (AccessType, error) {
	return internal.ParseAccessType(s)
}

// CheckAccess reports whether the current process holds the given access
// classes on path.
func CheckAccess(path string, at AccessType) bool {
	return internal.CheckAccess(path, at)
}

// Watch monitors a directory for filesystem changes.
func Watch(ctx context.Context, root string, opts WatchOptions, handler WatchHandler) error {
	return internalwatch.Watch(ctx, root, opts, handler)
}

// ParseWatchEvent validates an event name from user input.
func ParseWatchEvent(s string) (WatchEvent, error) {
	return internalwatch.ParseEvent(s)
}
