package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ordinance-go/internal/config"
	"ordinance-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	now := time.Date(2024, 3, 5, 9, 7, 30, 123, kst)

	assert.Equal(t, "조례_검색결과_2024-03-05T000730.docx", Filename(SearchResultsPrefix, now))
	assert.Equal(t, "조례_비교분석_2024-03-05T000730.docx", Filename(ComparisonPrefix, now))
	assert.False(t, strings.Contains(Filename(SearchResultsPrefix, now), ":"))
}

func TestFileSink_StoreLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	sink := NewFileSink(dir)

	path, err := sink.Store(context.Background(), "조례_검색결과_2024-03-05T000730.docx", &model.Document{Body: []byte("PK-docx")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "조례_검색결과_2024-03-05T000730.docx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK-docx"), data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasPrefix(entries[0].Name(), ".ordinance-download-"))
}

func TestFileSink_StripsDirectoryFromName(t *testing.T) {
	dir := t.TempDir()
	path, err := NewFileSink(dir).Store(context.Background(), "../../escape.docx", &model.Document{Body: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.docx"), path)
}

func TestFileSink_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileSink(t.TempDir()).Store(ctx, "a.docx", &model.Document{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSink(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewSink(context.Background(), config.DownloadConfig{Sink: "file", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileSink{}, sink)

	_, err = NewSink(context.Background(), config.DownloadConfig{Sink: "ftp"})
	assert.Error(t, err)
}

func TestLazySink_BuildsOnFirstStore(t *testing.T) {
	dir := t.TempDir()
	builds := 0
	sink := newLazySink(func(ctx context.Context) (Sink, error) {
		builds++
		return NewFileSink(dir), nil
	})
	assert.Zero(t, builds)

	_, err := sink.Store(context.Background(), "a.docx", &model.Document{Body: []byte("a")})
	require.NoError(t, err)
	_, err = sink.Store(context.Background(), "b.docx", &model.Document{Body: []byte("b")})
	require.NoError(t, err)
	assert.Equal(t, 1, builds)
}

func TestLazySink_RetriesAfterBuildFailure(t *testing.T) {
	dir := t.TempDir()
	builds := 0
	sink := newLazySink(func(ctx context.Context) (Sink, error) {
		builds++
		if builds == 1 {
			return nil, errors.New("bucket unreachable")
		}
		return NewFileSink(dir), nil
	})

	_, err := sink.Store(context.Background(), "a.docx", &model.Document{})
	assert.EqualError(t, err, "bucket unreachable")

	path, err := sink.Store(context.Background(), "a.docx", &model.Document{Body: []byte("a")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.docx"), path)
	assert.Equal(t, 2, builds)
}

func TestNewLazySink_DoesNotTouchMinIOUntilStore(t *testing.T) {
	// 端点不可达，但构造本身不应访问网络
	sink := NewLazySink(config.DownloadConfig{
		Sink:  "minio",
		MinIO: config.MinIOConfig{Endpoint: "127.0.0.1:1", BucketName: "ordinance-documents"},
	})
	assert.Nil(t, sink.sink)
}
