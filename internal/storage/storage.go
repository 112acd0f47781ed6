package storage

import (
	"context"
	"io"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service keeps exported career reports in remote object storage.
type Service interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObjectURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
