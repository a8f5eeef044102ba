package download

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFile_WritesBody(t *testing.T) {
	body := bytes.Repeat([]byte("SKCOM"), 5000) // spans several chunks
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api_zip/CapitalAPI_2.13.16.zip", r.URL.Path)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "cache")
	path, err := NewClient(0).DownloadFile(context.Background(), srv.URL+"/api_zip/CapitalAPI_2.13.16.zip", dir)
	require.NoError(t, err)
	assert.Equal(t, "CapitalAPI_2.13.16.zip", filepath.Base(path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestDownloadFile_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := NewClient(0).DownloadFile(context.Background(), srv.URL+"/vcredist_x64.exe", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPStatus)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)

	_, statErr := os.Stat(filepath.Join(dir, "vcredist_x64.exe"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadFile_EmptyURL(t *testing.T) {
	_, err := NewClient(0).DownloadFile(context.Background(), "", t.TempDir())
	assert.Error(t, err)
}

// stutterReader returns empty reads between real ones.
type stutterReader struct {
	chunks [][]byte
	i      int
}

func (s *stutterReader) Read(p []byte) (int, error) {
	if s.i >= len(s.chunks) {
		return 0, io.EOF
	}
	c := s.chunks[s.i]
	s.i++
	return copy(p, c), nil
}

type recordingWriter struct {
	bytes.Buffer
	writes []int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return w.Buffer.Write(p)
}

func TestCopyChunks_SkipsEmptyReads(t *testing.T) {
	src := &stutterReader{chunks: [][]byte{[]byte("ab"), {}, []byte("cd"), {}}}
	var dst recordingWriter

	n, err := copyChunks(&dst, src)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, "abcd", dst.String())
	assert.Equal(t, []int{2, 2}, dst.writes)
}

func TestCopyChunks_BoundedWrites(t *testing.T) {
	src := bytes.NewReader(bytes.Repeat([]byte{0x5a}, 3*ChunkSize+17))
	var dst recordingWriter

	_, err := copyChunks(&dst, src)
	require.NoError(t, err)
	for _, w := range dst.writes {
		assert.LessOrEqual(t, w, ChunkSize)
	}
	assert.Equal(t, 3*ChunkSize+17, dst.Len())
}
