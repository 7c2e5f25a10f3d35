package snapshot

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/kanjidex/internal/fetch"
)

func TestStore_filePath(t *testing.T) {
	tests := []struct {
		name    string
		kind    fetch.PageKind
		query   string
		want    string
		wantErr bool
	}{
		{
			name:  "kanji page",
			kind:  fetch.PageKindKanji,
			query: "語",
			want:  filepath.Join("snapshots", "kanji", "語.html"),
		},
		{
			name:  "sentences page",
			kind:  fetch.PageKindSentences,
			query: "日",
			want:  filepath.Join("snapshots", "sentences", "日.html"),
		},
		{
			name:    "path separator",
			kind:    fetch.PageKindKanji,
			query:   "../語",
			wantErr: true,
		},
		{
			name:    "empty query",
			kind:    fetch.PageKindKanji,
			query:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStore("snapshots").filePath(tt.kind, tt.query)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := NewStore(t.TempDir())
	assert.False(t, store.Exists(fetch.PageKindKanji, "語"))

	path, err := store.Save(fetch.PageKindKanji, "語", []byte("<html>語</html>"))
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.True(t, store.Exists(fetch.PageKindKanji, "語"))
	assert.False(t, store.Exists(fetch.PageKindSentences, "語"))

	got, err := store.Load(fetch.PageKindKanji, "語")
	require.NoError(t, err)
	assert.Equal(t, "<html>語</html>", string(got))

	_, err = store.Save(fetch.PageKindKanji, "語", []byte("<html>new</html>"))
	require.NoError(t, err)
	got, err = store.Load(fetch.PageKindKanji, "語")
	require.NoError(t, err)
	assert.Equal(t, "<html>new</html>", string(got))
}

func TestStore_Load_NotFound(t *testing.T) {
	_, err := NewStore(t.TempDir()).Load(fetch.PageKindSentences, "日")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Save_UnwritableDirectory(t *testing.T) {
	rootFile := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(rootFile, []byte("x"), 0644))

	_, err := NewStore(rootFile).Save(fetch.PageKindKanji, "語", []byte("x"))
	assert.Error(t, err)
}

type fakeFile struct {
	written  bytes.Buffer
	writeErr error
	closeErr error
	closed   bool
}

func (f *fakeFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return f.written.Write(p)
}

func (f *fakeFile) Close() error {
	f.closed = true
	return f.closeErr
}

func TestWriteAndClose(t *testing.T) {
	errDiskFull := errors.New("no space left on device")

	tests := []struct {
		name    string
		file    *fakeFile
		wantErr string
	}{
		{
			name: "written and closed",
			file: &fakeFile{},
		},
		{
			name:    "close error is returned",
			file:    &fakeFile{closeErr: errDiskFull},
			wantErr: "file.Close",
		},
		{
			name:    "write error still closes",
			file:    &fakeFile{writeErr: errDiskFull},
			wantErr: "file.Write",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeAndClose(tt.file, []byte("<html>語</html>"))
			assert.True(t, tt.file.closed)
			if tt.wantErr != "" {
				assert.ErrorIs(t, err, errDiskFull)
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "<html>語</html>", tt.file.written.String())
		})
	}
}

func TestStore_Fetch(t *testing.T) {
	var _ fetch.Fetcher = (*Store)(nil)

	store := NewStore(t.TempDir())
	_, err := store.Save(fetch.PageKindSentences, "日", []byte("<html>日</html>"))
	require.NoError(t, err)

	got, err := store.Fetch(context.Background(), fetch.PageKindSentences, "日")
	require.NoError(t, err)
	assert.Equal(t, "<html>日</html>", string(got))

	_, err = store.Fetch(context.Background(), fetch.PageKindKanji, "日")
	assert.ErrorIs(t, err, ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Fetch(ctx, fetch.PageKindSentences, "日")
	assert.ErrorIs(t, err, context.Canceled)
}
