// Package download 负责把后端返回的文档交付给用户：命名并写入目标存储。
package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ordinance-go/internal/config"
	"ordinance-go/internal/model"
	"ordinance-go/pkg/log"
	"ordinance-go/pkg/storage"
)

// 下载文件名前缀。
const (
	SearchResultsPrefix = "조례_검색결과"
	ComparisonPrefix    = "조례_비교분석"
)

// Sink 保存文档并返回可供用户打开的位置（本地路径或链接）。
type Sink interface {
	Store(ctx context.Context, name string, doc *model.Document) (string, error)
}

// Filename 生成 "<prefix>_<ISO8601 去掉冒号>.docx"，时间取 UTC 精确到秒。
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.docx", prefix, now.UTC().Format("2006-01-02T150405"))
}

// NewSink 根据配置创建下载目标。
func NewSink(ctx context.Context, cfg config.DownloadConfig) (Sink, error) {
	switch cfg.Sink {
	case "minio":
		s, err := storage.NewMinIOStore(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case "file", "":
		return NewFileSink(cfg.Dir), nil
	default:
		return nil, fmt.Errorf("不支持的下载目标: %s", cfg.Sink)
	}
}

// LazySink 在第一次 Store 时才创建真正的下载目标，只检索不下载的命令不会访问存储。
// 创建失败时不缓存错误，下一次 Store 会重试。
type LazySink struct {
	mu    sync.Mutex
	build func(ctx context.Context) (Sink, error)
	sink  Sink
}

// NewLazySink 创建按 cfg 延迟初始化的 Sink。
func NewLazySink(cfg config.DownloadConfig) *LazySink {
	return newLazySink(func(ctx context.Context) (Sink, error) {
		return NewSink(ctx, cfg)
	})
}

func newLazySink(build func(ctx context.Context) (Sink, error)) *LazySink {
	return &LazySink{build: build}
}

// Store 确保下载目标已创建，然后保存文档。
func (l *LazySink) Store(ctx context.Context, name string, doc *model.Document) (string, error) {
	l.mu.Lock()
	if l.sink == nil {
		sink, err := l.build(ctx)
		if err != nil {
			l.mu.Unlock()
			return "", err
		}
		l.sink = sink
	}
	sink := l.sink
	l.mu.Unlock()
	return sink.Store(ctx, name, doc)
}

// FileSink 把文档写入本地目录。
type FileSink struct {
	dir string
}

// NewFileSink 创建写入 dir 的 FileSink。
func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = "."
	}
	return &FileSink{dir: dir}
}

// Store 先写入临时文件，再原子地重命名为目标文件名；临时文件在返回前一定被释放。
func (s *FileSink) Store(ctx context.Context, name string, doc *model.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("创建下载目录失败: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".ordinance-download-*")
	if err != nil {
		return "", fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(doc.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("关闭临时文件失败: %w", err)
	}

	target := filepath.Join(s.dir, filepath.Base(name))
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("保存文件失败: %w", err)
	}
	log.Infof("[Download] 文档已保存: %s (%d bytes)", target, len(doc.Body))
	return target, nil
}
