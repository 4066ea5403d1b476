package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comigor/memoria/internal/api"
	"github.com/comigor/memoria/internal/config"
	"github.com/comigor/memoria/internal/credential"
	"github.com/comigor/memoria/internal/viewstate"
)

type ingestBackend struct {
	calls    atomic.Int32
	status   int
	body     string
	filename string
}

func (b *ingestBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.calls.Add(1)
	if r.URL.Path != Path {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if f, hdr, err := r.FormFile(FormField); err == nil {
		b.filename = hdr.Filename
		f.Close()
	}
	if b.status != 0 {
		w.WriteHeader(b.status)
	}
	io.WriteString(w, b.body)
}

func newController(t *testing.T, b *ingestBackend) *Controller {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return NewController(api.NewClient(config.APIConfig{BaseURL: srv.URL}, credential.NewMemoryStore("tok")))
}

func file(name string) *File {
	return &File{Name: name, Data: strings.NewReader("some document text")}
}

func TestSelectFile_RejectsUnsupportedExtensions(t *testing.T) {
	b := &ingestBackend{body: `{"ingested_chunks":1}`}
	c := newController(t, b)

	for _, name := range []string{"notes.exe", "archive.tar.gz", "README", "report.pdf.zip", "image.PNG", "doc."} {
		t.Run(name, func(t *testing.T) {
			_, err := c.SelectFile(context.Background(), file(name))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			msg, ok := c.State().Message()
			require.True(t, ok)
			require.Equal(t, InvalidTypeMessage, msg)
		})
	}
	require.Equal(t, int32(0), b.calls.Load(), "rejected files must not reach the network")
}

func TestSelectFile_AcceptsCaseInsensitive(t *testing.T) {
	for _, name := range []string{"a.pdf", "B.PDF", "c.Docx", "d.txt", "my.notes.TXT"} {
		require.True(t, Allowed(name), name)
	}
	require.Equal(t, ".gz", Extension("x.tar.GZ"))
	require.Equal(t, "", Extension("noext"))
}

func TestSelectFile_Success(t *testing.T) {
	b := &ingestBackend{body: `{"success":true,"ingested_chunks":7}`}
	c := newController(t, b)

	res, err := c.SelectFile(context.Background(), file("notes.pdf"))
	require.NoError(t, err)
	require.Equal(t, 7, res.IngestedChunks)
	require.Equal(t, "notes.pdf", b.filename)

	payload, ok := c.State().Payload()
	require.True(t, ok)
	require.Equal(t, Result{IngestedChunks: 7}, payload)

	_, selected := c.Selected()
	require.False(t, selected, "input is reset after success")
}

func TestSelectFile_SuccessWithMessage(t *testing.T) {
	b := &ingestBackend{body: `{"ingested_chunks":0,"message":"Successfully ingested 0 chunks from a.txt"}`}
	c := newController(t, b)

	res, err := c.SelectFile(context.Background(), file("a.txt"))
	require.NoError(t, err)
	require.Equal(t, 0, res.IngestedChunks)
	require.Equal(t, "Successfully ingested 0 chunks from a.txt", res.Message)
}

func TestSelectFile_BackendDetail(t *testing.T) {
	b := &ingestBackend{status: http.StatusBadRequest, body: `{"detail":"Empty file"}`}
	c := newController(t, b)

	_, err := c.SelectFile(context.Background(), file("empty.txt"))
	require.Error(t, err)
	msg, ok := c.State().Message()
	require.True(t, ok)
	require.Equal(t, "Empty file", msg)

	name, selected := c.Selected()
	require.True(t, selected, "input keeps the file after a failure")
	require.Equal(t, "empty.txt", name)
}

func TestSelectFile_FallbackMessage(t *testing.T) {
	b := &ingestBackend{status: http.StatusBadGateway, body: `bad gateway`}
	c := newController(t, b)

	_, err := c.SelectFile(context.Background(), file("a.docx"))
	require.Error(t, err)
	msg, _ := c.State().Message()
	require.Equal(t, FallbackError, msg)
}

func TestSelectFile_NilIsNoop(t *testing.T) {
	b := &ingestBackend{body: `{"ingested_chunks":1}`}
	c := newController(t, b)
	_, err := c.SelectFile(context.Background(), file("x.exe"))
	require.Error(t, err)
	before := c.State()

	res, err := c.SelectFile(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, Result{}, res)
	require.Equal(t, before, c.State())
	require.Equal(t, int32(0), b.calls.Load())
}

func TestSelectFile_MissingDataEndsInError(t *testing.T) {
	b := &ingestBackend{body: `{"ingested_chunks":1}`}
	c := newController(t, b)

	require.NotPanics(t, func() {
		_, err := c.SelectFile(context.Background(), &File{Name: "a.pdf"})
		require.Error(t, err)
	})
	require.Equal(t, viewstate.Error, c.State().Kind())
	msg, _ := c.State().Message()
	require.Equal(t, FallbackError, msg)
	require.Equal(t, int32(0), b.calls.Load())
}

func TestSelectFile_PendingDuringUploadClearsPreviousError(t *testing.T) {
	var during viewstate.State[Result]
	var c *Controller
	c = NewController(uploaderFunc(func(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
		during = c.State()
		return &api.NetworkError{Method: http.MethodPost, Path: path, Cause: errors.New("connection refused")}
	}))

	_, err := c.SelectFile(context.Background(), file("x.exe"))
	require.Error(t, err)
	require.Equal(t, viewstate.Error, c.State().Kind())

	_, err = c.SelectFile(context.Background(), file("x.pdf"))
	var netErr *api.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.True(t, during.IsPending())
	_, hadErr := during.Message()
	require.False(t, hadErr)

	msg, ok := c.State().Message()
	require.True(t, ok)
	require.Equal(t, FallbackError, msg)
}

func TestLifecycleRejectsOutOfOrderTriggers(t *testing.T) {
	c := NewController(nil)
	fsm := c.newLifecycle()

	require.Error(t, fsm.FireCtx(context.Background(), TriggerSucceed, Result{}))
	require.NoError(t, fsm.FireCtx(context.Background(), TriggerSelect))
	require.Error(t, fsm.FireCtx(context.Background(), TriggerSucceed, Result{}))
	require.NoError(t, fsm.FireCtx(context.Background(), TriggerAccept))
	require.True(t, c.State().IsPending())
	require.NoError(t, fsm.FireCtx(context.Background(), TriggerSucceed, Result{IngestedChunks: 2}))
	require.Equal(t, StateIdle, fsm.MustState())
}

type uploaderFunc func(ctx context.Context, path, field, filename string, r io.Reader, out any) error

func (f uploaderFunc) Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	return f(ctx, path, field, filename, r, out)
}
