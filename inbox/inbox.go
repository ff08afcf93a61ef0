// ABOUTME: Screenshot inbox watcher
// ABOUTME: Moves images dropped into a directory into the archive and captures them as activities
package inbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/harperreed/prospect/activities"
	"github.com/harperreed/prospect/models"
)

// DefaultSettle is how long a file must be quiet before it is ingested.
const DefaultSettle = 500 * time.Millisecond

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".heic": true,
}

// Capturer records a new unorganized activity.
type Capturer interface {
	CaptureActivity(ctx context.Context, in activities.CaptureInput) (*models.Activity, error)
}

// Watcher ingests screenshots from Dir into Archive.
type Watcher struct {
	Dir     string
	Archive string
	Settle  time.Duration

	capturer Capturer
	logger   *log.Logger
}

// New prepares the inbox and its sibling screenshots archive.
func New(dir string, capturer Capturer, logger *log.Logger) (*Watcher, error) {
	if dir == "" {
		return nil, errors.New("inbox directory is required")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	w := &Watcher{
		Dir:      dir,
		Archive:  filepath.Join(filepath.Dir(filepath.Clean(dir)), "screenshots"),
		Settle:   DefaultSettle,
		capturer: capturer,
		logger:   logger.WithPrefix("inbox"),
	}
	for _, d := range []string{w.Dir, w.Archive} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", d, err)
		}
	}
	return w, nil
}

// IsImage reports whether name has a screenshot file extension.
func IsImage(name string) bool {
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// IngestFile archives one image and captures it. Non-images are skipped
// with a nil activity.
func (w *Watcher) IngestFile(ctx context.Context, path string) (*models.Activity, error) {
	if !IsImage(path) {
		return nil, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}

	dest := filepath.Join(w.Archive, uuid.NewString()+strings.ToLower(filepath.Ext(path)))
	if err := moveFile(path, dest); err != nil {
		return nil, fmt.Errorf("failed to archive %s: %w", path, err)
	}

	activity, err := w.capturer.CaptureActivity(ctx, activities.CaptureInput{
		Content:        "Screenshot " + filepath.Base(path),
		OccurredAt:     info.ModTime(),
		ScreenshotPath: dest,
		Source:         models.SourceInbox,
	})
	if err != nil {
		// Put the file back so the next scan retries it.
		if rerr := moveFile(dest, path); rerr != nil {
			w.logger.Error("failed to restore screenshot", "path", dest, "err", rerr)
		}
		return nil, err
	}

	w.logger.Info("screenshot captured", "file", filepath.Base(path), "activity", activity.ID)
	return activity, nil
}

// IngestExisting ingests every image already in the inbox, oldest name first.
func (w *Watcher) IngestExisting(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return 0, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && IsImage(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	n := 0
	for _, name := range names {
		activity, err := w.IngestFile(ctx, filepath.Join(w.Dir, name))
		if err != nil {
			return n, err
		}
		if activity != nil {
			n++
		}
	}
	return n, nil
}

// Run ingests the current backlog, then watches for new files until ctx is
// done. Files are ingested once they have been quiet for Settle.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() {
		_ = fw.Close()
	}()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.Dir, err)
	}

	if n, err := w.IngestExisting(ctx); err != nil {
		w.logger.Error("backlog ingest failed", "err", err)
	} else if n > 0 {
		w.logger.Info("backlog ingested", "count", n)
	}

	settle := w.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	ticker := time.NewTicker(pollInterval(settle))
	defer ticker.Stop()

	pending := map[string]time.Time{}
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !IsImage(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				pending[event.Name] = time.Now()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)

		case now := <-ticker.C:
			for path, seen := range pending {
				if now.Sub(seen) < settle {
					continue
				}
				delete(pending, path)
				if _, err := w.IngestFile(ctx, path); err != nil {
					w.logger.Error("ingest failed", "path", path, "err", err)
				}
			}
		}
	}
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	// Rename fails across filesystems; fall back to copy and remove.
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

// minPoll keeps the settle ticker positive for tiny settle delays.
const minPoll = time.Millisecond

func pollInterval(settle time.Duration) time.Duration {
	return max(settle/2, minPoll)
}
