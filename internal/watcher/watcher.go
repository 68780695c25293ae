// Package watcher implements C2: a non-recursive filesystem watch over a
// bucket directory that decodes each newly-written bucket file into its
// BucketEntry records and forwards them on a bounded channel.
package watcher

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/stellar/go/xdr"

	"quasarindexer/internal/xdrcodec"
)

// Entry pairs one decoded BucketEntry with the file it came from, so
// downstream consumers can log which bucket produced a given row.
type Entry struct {
	SourceFile string
	Record     xdr.BucketEntry
}

// Watch watches dir for bucket files being created or written to and
// streams their decoded entries on the returned channel (a file written to
// more than once is re-read from the start each time). The channel has
// capacity 10, matching the reference's buffering; a full channel blocks
// the watch loop (backpressure, not drop-on-full). The channel is closed
// only when fsnotify closes its event or error channel; Watch takes no
// context, so canceling the caller's context does not stop the watch
// goroutine, and fsnotify errors are logged without closing it.
func Watch(log *slog.Logger, dir string) (<-chan Entry, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	out := make(chan Entry, 10)
	go run(log, fsw, out)
	return out, nil
}

func run(log *slog.Logger, fsw *fsnotify.Watcher, out chan<- Entry) {
	defer close(out)
	defer fsw.Close()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			processFile(log, event.Name, out)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.Error("bucket watcher error", "error", err)
		}
	}
}

func processFile(log *slog.Logger, path string, out chan<- Entry) {
	name := filepath.Base(path)
	reader, err := xdrcodec.OpenBucketFile(path)
	if err != nil {
		log.Debug("skipping unreadable bucket file", "file", name, "error", err)
		return
	}
	defer reader.Close()

	for {
		record, err := reader.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("skipping undecodable bucket entry", "file", name, "error", err)
			}
			return
		}
		out <- Entry{SourceFile: name, Record: record}
	}
}
