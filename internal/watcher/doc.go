// Package watcher reloads configuration when its file changes.
//
// # Overview
//
// FileWatcher wraps fsnotify and debounces the burst of events an editor
// produces on save into a single callback. It watches the parent
// directory of each file so replace-by-rename saves are seen.
//
// # Usage
//
//	w := watcher.NewWatcher(250*time.Millisecond, func(paths []string) {
//	    if err := manager.Load(); err == nil {
//	        cart.ApplyConfig(manager.Get())
//	    }
//	})
//	if err := w.Watch(manager.Path()); err != nil {
//	    return err
//	}
//	defer w.Stop()
//
// FileChanged can also be called directly, which is how tests drive the
// debounce without touching the file system.
package watcher
