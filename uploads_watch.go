package main

import (
	"log"
	"os"
	"path/filepath"

	"fintrack/models"

	"github.com/fsnotify/fsnotify"
)

// startUploadsWatcher watches the avatar directory and marks uploads rows
// Failed when their backing file disappears, so stale avatar URLs are visible
// instead of silently 404ing. Returns a stop func; watcher setup failure is
// logged and the server keeps running without it.
func startUploadsWatcher(base string) func() {
	dir := filepath.Join(base, "avatars")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("uploads watcher: mkdir %s: %v", dir, err)
		return func() {}
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("uploads watcher disabled: %v", err)
		return func() {}
	}
	if err := watcher.Add(dir); err != nil {
		log.Printf("uploads watcher disabled: %v", err)
		watcher.Close()
		return func() {}
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				name := filepath.Base(ev.Name)
				res := db.Model(&models.Upload{}).
					Where("file_name = ? AND failed = ?", name, false).
					Updates(map[string]any{"failed": true, "failed_reason": "file missing"})
				if res.Error != nil {
					log.Printf("uploads watcher: flag %s: %v", name, res.Error)
				} else if res.RowsAffected > 0 {
					log.Printf("uploads watcher: flagged %s as missing", name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("uploads watcher: %v", err)
			}
		}
	}()

	return func() { watcher.Close() }
}
