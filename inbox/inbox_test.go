package inbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/prospect/activities"
	"github.com/harperreed/prospect/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapturer struct {
	mu       sync.Mutex
	captured []activities.CaptureInput
	err      error
}

func (f *fakeCapturer) CaptureActivity(ctx context.Context, in activities.CaptureInput) (*models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.captured = append(f.captured, in)
	return &models.Activity{ID: int64(len(f.captured)), ScreenshotPath: in.ScreenshotPath, Source: in.Source}, nil
}

func (f *fakeCapturer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.captured)
}

func setupWatcher(t *testing.T, capturer Capturer) *Watcher {
	t.Helper()
	w, err := New(filepath.Join(t.TempDir(), "inbox"), capturer, nil)
	require.NoError(t, err)
	return w
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("fake image"), 0644))
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("shot.png"))
	assert.True(t, IsImage("/tmp/Shot.JPEG"))
	assert.False(t, IsImage("notes.txt"))
	assert.False(t, IsImage(".hidden.png"))
	assert.False(t, IsImage("noext"))
}

func TestNewCreatesDirectories(t *testing.T) {
	w := setupWatcher(t, &fakeCapturer{})

	for _, d := range []string{w.Dir, w.Archive} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.Equal(t, "screenshots", filepath.Base(w.Archive))

	_, err := New("", &fakeCapturer{}, nil)
	assert.Error(t, err)
}

func TestIngestFile(t *testing.T) {
	capturer := &fakeCapturer{}
	w := setupWatcher(t, capturer)
	ctx := context.Background()

	src := filepath.Join(w.Dir, "chat.PNG")
	writeFile(t, src)

	activity, err := w.IngestFile(ctx, src)
	require.NoError(t, err)
	require.NotNil(t, activity)
	assert.Equal(t, models.SourceInbox, activity.Source)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source should be moved out of the inbox")

	assert.Equal(t, w.Archive, filepath.Dir(activity.ScreenshotPath))
	assert.True(t, strings.HasSuffix(activity.ScreenshotPath, ".png"))
	_, err = os.Stat(activity.ScreenshotPath)
	require.NoError(t, err)

	require.Len(t, capturer.captured, 1)
	assert.Equal(t, "Screenshot chat.PNG", capturer.captured[0].Content)
	assert.False(t, capturer.captured[0].OccurredAt.IsZero())
}

func TestIngestFileSkipsNonImages(t *testing.T) {
	capturer := &fakeCapturer{}
	w := setupWatcher(t, capturer)

	src := filepath.Join(w.Dir, "notes.txt")
	writeFile(t, src)

	activity, err := w.IngestFile(context.Background(), src)
	require.NoError(t, err)
	assert.Nil(t, activity)
	assert.Equal(t, 0, capturer.count())

	_, err = os.Stat(src)
	assert.NoError(t, err)
}

func TestIngestFileRestoresOnCaptureFailure(t *testing.T) {
	w := setupWatcher(t, &fakeCapturer{err: errors.New("store down")})

	src := filepath.Join(w.Dir, "a.jpg")
	writeFile(t, src)

	_, err := w.IngestFile(context.Background(), src)
	require.Error(t, err)

	_, err = os.Stat(src)
	assert.NoError(t, err, "file should be back in the inbox")

	archived, err := os.ReadDir(w.Archive)
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestIngestExisting(t *testing.T) {
	capturer := &fakeCapturer{}
	w := setupWatcher(t, capturer)

	writeFile(t, filepath.Join(w.Dir, "b.png"))
	writeFile(t, filepath.Join(w.Dir, "a.png"))
	writeFile(t, filepath.Join(w.Dir, "readme.md"))

	n, err := w.IngestExisting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, capturer.captured, 2)
	assert.Equal(t, "Screenshot a.png", capturer.captured[0].Content)
	assert.Equal(t, "Screenshot b.png", capturer.captured[1].Content)
}

func TestRunPicksUpNewFiles(t *testing.T) {
	capturer := &fakeCapturer{}
	w := setupWatcher(t, capturer)
	w.Settle = 50 * time.Millisecond

	writeFile(t, filepath.Join(w.Dir, "backlog.png"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return capturer.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	writeFile(t, filepath.Join(w.Dir, "fresh.png"))
	require.Eventually(t, func() bool { return capturer.count() == 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestPollInterval(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, pollInterval(500*time.Millisecond))
	assert.Equal(t, time.Millisecond, pollInterval(time.Nanosecond))
	assert.Equal(t, time.Millisecond, pollInterval(time.Millisecond))
}

func TestRunWithTinySettle(t *testing.T) {
	capturer := &fakeCapturer{}
	w := setupWatcher(t, capturer)
	w.Settle = time.Nanosecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeFile(t, filepath.Join(w.Dir, "quick.png"))
	require.Eventually(t, func() bool { return capturer.count() == 1 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
