package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fileportal/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNoFileSelected is returned when an upload is started without a payload.
var ErrNoFileSelected = errors.New("no file selected")

// TransferPhase is the lifecycle stage of one upload.
type TransferPhase string

const (
	PhaseSelecting TransferPhase = "selecting"
	PhaseUploading TransferPhase = "uploading"
	PhaseComplete  TransferPhase = "complete"
	PhaseFailed    TransferPhase = "failed"
)

// TransferProgress is one progress observation for an in-flight upload.
// Percent is a synthetic estimate: the transport's real byte progress is not
// observable, so the manager ticks upward and only reports 100 once the
// server has confirmed receipt.
type TransferProgress struct {
	Percent int
	Phase   TransferPhase
}

// ProgressFunc observes upload progress. Called from the manager's ticker
// goroutine and from the completion path, never after the final observation.
type ProgressFunc func(TransferProgress)

// Persister materialises a downloaded payload somewhere the user can reach
// it. It stands in for the browser save dialog.
type Persister interface {
	Persist(r io.Reader, filename string) error
}

// DirPersister writes downloads into a directory, creating it on demand.
type DirPersister struct {
	Dir string
}

func (p DirPersister) Persist(r io.Reader, filename string) error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return errors.Wrap(err, "create download dir")
	}

	path := filepath.Join(p.Dir, filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create download file")
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)

		return errors.Wrap(err, "write download file")
	}

	return errors.Wrap(f.Close(), "close download file")
}

// TransferManager runs uploads, downloads and deletes against the portal and
// keeps the local FileCache consistent with what the server confirmed.
type TransferManager struct {
	client       *Client
	cache        *FileCache
	persister    Persister
	tickInterval time.Duration
}

// NewTransferManager wires a manager over an authenticated client.
func NewTransferManager(c *Client, cache *FileCache, persister Persister) *TransferManager {
	return &TransferManager{
		client:       c,
		cache:        cache,
		persister:    persister,
		tickInterval: 300 * time.Millisecond,
	}
}

// Cache exposes the local file list for views.
func (m *TransferManager) Cache() *FileCache {
	return m.cache
}

// List fetches the file list, newest first, and replaces the cache.
func (m *TransferManager) List(ctx context.Context) ([]*entity.FileRecord, error) {
	var files []*entity.FileRecord
	if err := m.client.getJSON(ctx, "files/", &files); err != nil {
		return nil, err
	}
	m.cache.Replace(files)

	return files, nil
}

// Upload sends the payload as a multipart form and prepends the confirmed
// record to the cache. Progress is reported through onProgress while the
// request is outstanding; the estimate never reaches 100 before the server
// answers, and 100 is reported only on success.
func (m *TransferManager) Upload(ctx context.Context, content io.Reader, filename string, onProgress ProgressFunc) (*entity.FileRecord, error) {
	if content == nil || filename == "" {
		if onProgress != nil {
			onProgress(TransferProgress{Percent: 0, Phase: PhaseSelecting})
		}

		return nil, ErrNoFileSelected
	}

	body, contentType, err := buildMultipart(content, filename)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.client.url("files/"), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build upload request")
	}
	req.Header.Set("Content-Type", contentType)

	ticker := startProgressTicker(m.tickInterval, onProgress)

	var record entity.FileRecord
	if err := m.client.doJSON(req, &record); err != nil {
		ticker.fail()

		return nil, err
	}
	ticker.complete()

	m.cache.Prepend(&record)

	return &record, nil
}

// Download streams the file's bytes to the persister under the given
// filename. The cache is untouched whether it succeeds or fails.
func (m *TransferManager) Download(ctx context.Context, id uuid.UUID, filename string) error {
	body, err := m.client.stream(ctx, "download/"+id.String()+"/")
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	return m.persister.Persist(body, filename)
}

// Delete removes the file on the server, then from the cache. A failed
// delete leaves the cache alone so the list never drifts from server state.
func (m *TransferManager) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.client.sendJSON(ctx, http.MethodDelete, "files/"+id.String()+"/", nil, nil); err != nil {
		return err
	}
	m.cache.Remove(id)

	return nil
}

func buildMultipart(content io.Reader, filename string) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", errors.Wrap(err, "create form file")
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", errors.Wrap(err, "copy upload payload")
	}
	if err := writer.Close(); err != nil {
		return nil, "", errors.Wrap(err, "finalise multipart body")
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

// progressTicker emits a synthetic, monotonically non-decreasing estimate
// while an upload is outstanding. It is stopped on both exit paths; once
// stopped it never emits again, so a late tick cannot overwrite the final
// state.
type progressTicker struct {
	mu      sync.Mutex
	percent int
	done    bool

	stop chan struct{}
	emit ProgressFunc
}

func startProgressTicker(interval time.Duration, emit ProgressFunc) *progressTicker {
	t := &progressTicker{
		stop: make(chan struct{}),
		emit: emit,
	}
	t.send(TransferProgress{Percent: 0, Phase: PhaseUploading})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				t.advance()
			}
		}
	}()

	return t
}

// advance bumps the estimate by 10 points, holding at 90 until the server
// confirms.
func (t *progressTicker) advance() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return
	}
	if t.percent < 90 {
		t.percent += 10
	}
	if t.emit != nil {
		t.emit(TransferProgress{Percent: t.percent, Phase: PhaseUploading})
	}
}

func (t *progressTicker) complete() {
	t.finish(TransferProgress{Percent: 100, Phase: PhaseComplete})
}

func (t *progressTicker) fail() {
	t.finish(TransferProgress{Percent: -1, Phase: PhaseFailed})
}

func (t *progressTicker) finish(final TransferProgress) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return
	}
	t.done = true
	if final.Percent < 0 {
		// Failure abandons the estimate where it stood.
		final.Percent = t.percent
	}
	t.percent = final.Percent

	close(t.stop)
	if t.emit != nil {
		t.emit(final)
	}
}

// send reports an observation outside the ticker loop.
func (t *progressTicker) send(progress TransferProgress) {
	if t.emit != nil {
		t.emit(progress)
	}
}
