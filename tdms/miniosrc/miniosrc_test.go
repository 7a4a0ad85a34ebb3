package miniosrc

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-tdms/internal/dtype"
	"github.com/robert-malhotra/go-tdms/internal/leadin"
	"github.com/robert-malhotra/go-tdms/internal/tdmstest"
	"github.com/robert-malhotra/go-tdms/tdms"
)

// objectServer serves one object with HEAD and ranged GET support.
func objectServer(t *testing.T, bucket, key string, data []byte) *minio.Client {
	t.Helper()
	modTime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+bucket+"/"+key {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method != http.MethodHead {
				io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>not found</Message></Error>`)
			}
			return
		}
		w.Header().Set("ETag", `"0123456789abcdef"`)
		http.ServeContent(w, r, key, modTime, bytes.NewReader(data))
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Secure: false,
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return client
}

func TestOpen(t *testing.T) {
	le := binary.LittleEndian
	data := tdmstest.New().Add(tdmstest.Segment{
		Flags: leadin.FlagMetaData | leadin.FlagNewObjList | leadin.FlagRawData,
		Objects: []tdmstest.Object{
			{Path: "/'g'"},
			{Path: "/'g'/'c'", Index: tdmstest.Explicit(dtype.Int32, 4)},
		},
		Raw: tdmstest.Values(le, []int32{4, 3, 2, 1}),
	}).Bytes()
	client := objectServer(t, "runs", "day1/run.tdms", data)

	f, err := Open(context.Background(), client, "runs", "day1/run.tdms")
	require.NoError(t, err)
	defer f.Close()

	ch, err := f.Channel("g", "c")
	require.NoError(t, err)
	vals, err := ch.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, []int32{4, 3, 2, 1}, vals)
}

func TestReadAtEnd(t *testing.T) {
	client := objectServer(t, "b", "k", []byte("0123456789"))
	src, err := New(context.Background(), client, "b", "k")
	require.NoError(t, err)
	assert.EqualValues(t, 10, src.Size())

	buf := make([]byte, 4)
	n, err := src.ReadAt(buf, 8)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)
	assert.Equal(t, "89", string(buf[:n]))

	_, err = src.ReadAt(buf, 10)
	assert.ErrorIs(t, err, io.EOF)
}

func TestNotFound(t *testing.T) {
	client := objectServer(t, "b", "k", []byte("x"))
	_, err := New(context.Background(), client, "b", "missing")
	assert.ErrorIs(t, err, tdms.ErrNotFound)
}
