// Package finder provides filtered filesystem discovery with full
// per-candidate accounting.
//
// This package contains the public API of the `satchel find` and
// `satchel watch` commands: a bounded-depth directory walk with glob
// filtering and access checks, result rendering in several formats, and
// filesystem change monitoring.

// Watch Functionality
//
// The package also exposes filesystem change monitoring:
//
//	// Basic usage
//	opts := finder.WatchOptions{
//		Recursive: true,
//	}
//	err := finder.Watch(context.Background(), "/path/to/watch", opts, nil)
//
//	// With event filtering
//	opts := finder.WatchOptions{
//		Events: []finder.WatchEvent{finder.EventCreate, finder.EventModify},
//	}
//	err := finder.Watch(context.Background(), "/path/to/watch", opts, nil)
//
//	// With custom handler
//	err := finder.Watch(context.Background(), "/path/to/watch", opts, func(ctx context.Context, msg finder.WatchMessage) error {
//		fmt.Printf("Event: %s, File: %s\n", msg.Event, msg.Path)
//		return nil
//	})

package finder
