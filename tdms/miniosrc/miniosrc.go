// Package miniosrc reads TDMS files stored in MinIO or any S3 compatible
// object store.
package miniosrc

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/robert-malhotra/go-tdms/tdms"
)

// Source is a tdms.Source backed by ranged GET requests.
type Source struct {
	ctx    context.Context
	client *minio.Client
	bucket string
	key    string
	size   int64
}

var _ tdms.Source = (*Source)(nil)

// New stats the object and returns a source for it. ctx bounds every
// request the source makes.
func New(ctx context.Context, client *minio.Client, bucket, key string) (*Source, error) {
	info, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
			return nil, fmt.Errorf("%s/%s: %w", bucket, key, tdms.ErrNotFound)
		}
		return nil, err
	}
	return &Source{
		ctx:    ctx,
		client: client,
		bucket: bucket,
		key:    key,
		size:   info.Size,
	}, nil
}

// Size returns the object size.
func (s *Source) Size() int64 {
	return s.size
}

// ReadAt reads len(p) bytes at off with a single ranged request.
func (s *Source) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("miniosrc: negative offset")
	}
	if off >= s.size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	end := off + int64(len(p)) - 1
	short := false
	if end >= s.size {
		end = s.size - 1
		short = true
	}

	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(off, end); err != nil {
		return 0, err
	}
	obj, err := s.client.GetObject(s.ctx, s.bucket, s.key, opts)
	if err != nil {
		return 0, err
	}
	defer obj.Close()

	n, err := io.ReadFull(obj, p[:end-off+1])
	if err != nil {
		return n, err
	}
	if short {
		return n, io.EOF
	}
	return n, nil
}

// Open indexes the TDMS file stored under bucket/key.
func Open(ctx context.Context, client *minio.Client, bucket, key string, opts ...tdms.Option) (*tdms.File, error) {
	src, err := New(ctx, client, bucket, key)
	if err != nil {
		return nil, err
	}
	return tdms.OpenSource(src, opts...)
}
