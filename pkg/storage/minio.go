// Package storage 提供了把生成的文档归档到 MinIO 的能力。
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"ordinance-go/internal/config"
	"ordinance-go/internal/model"
	"ordinance-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultLinkExpiry = time.Hour

// MinIOStore 把文档上传到存储桶，并返回限时下载链接。
type MinIOStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMinIOStore 初始化 MinIO 客户端。此时不访问网络。
func NewMinIOStore(cfg config.MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 MinIO 客户端失败: %w", err)
	}

	return &MinIOStore{
		client: client,
		bucket: cfg.BucketName,
		expiry: linkExpiry(cfg.LinkExpiryMinute),
	}, nil
}

// EnsureBucket 检查存储桶是否存在，不存在则创建。
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("检查 MinIO 存储桶失败: %w", err)
	}
	if exists {
		log.Infof("存储桶 '%s' 已存在", s.bucket)
		return nil
	}

	log.Infof("存储桶 '%s' 不存在，正在创建...", s.bucket)
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("创建 MinIO 存储桶失败: %w", err)
	}
	return nil
}

// Store 上传文档并生成预签名下载链接。
func (s *MinIOStore) Store(ctx context.Context, name string, doc *model.Document) (string, error) {
	contentType := doc.ContentType
	if contentType == "" {
		contentType = model.DocxContentType
	}

	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(doc.Body), int64(len(doc.Body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("上传文档到 MinIO 失败: %w", err)
	}

	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, name, s.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("生成下载链接失败: %w", err)
	}
	log.Infof("[MinIOStore] 文档已归档: %s/%s", s.bucket, name)
	return presignedURL.String(), nil
}

func linkExpiry(minutes int) time.Duration {
	if minutes <= 0 {
		return defaultLinkExpiry
	}
	// 预签名链接最长 7 天
	d := time.Duration(minutes) * time.Minute
	if d > 7*24*time.Hour {
		return 7 * 24 * time.Hour
	}
	return d
}
