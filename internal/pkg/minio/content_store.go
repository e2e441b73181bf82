package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

const contentType = "text/plain; charset=utf-8"

// maxBodyBytes 单章正文读取上限
const maxBodyBytes = 4 << 20

// ContentStore 章节正文读写
type ContentStore struct {
	client *minio.Client
	bucket string
}

func NewContentStore(client *minio.Client, bucket string) *ContentStore {
	return &ContentStore{client: client, bucket: bucket}
}

func (s *ContentStore) PutContent(ctx context.Context, key string, body string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, strings.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload content %s: %w", key, err)
	}
	return nil
}

func (s *ContentStore) GetContent(ctx context.Context, key string) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get content %s: %w", key, err)
	}
	defer func() {
		_ = obj.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(obj, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read content %s: %w", key, err)
	}
	return string(data), nil
}

func (s *ContentStore) DeleteContent(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete content %s: %w", key, err)
	}
	return nil
}
