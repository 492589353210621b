package coexstats

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// File is a decompressed view of a local or Google Storage file. Closing it
// closes the underlying file or object reader.
type File struct {
	io.Reader
	DataType DataType
	closer   io.Closer
}

func (f *File) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}

	return nil
}

// SplitGSPath splits gs://bucket/path/to/object into its bucket and object
// name.
func SplitGSPath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// Open opens path for reading. Paths prefixed with gs:// are read from Google
// Storage, which requires client to be non-nil. Compressed inputs are
// decompressed transparently.
func Open(ctx context.Context, path string, client *storage.Client) (*File, error) {
	var (
		rc  io.ReadCloser
		err error
	)

	if strings.HasPrefix(path, "gs://") {
		if client == nil {
			return nil, pfx.Err(fmt.Errorf("%s: a Google Storage client is required for gs:// paths", path))
		}

		bucketName, pathName, err := SplitGSPath(path)
		if err != nil {
			return nil, pfx.Err(err)
		}

		rc, err = client.Bucket(bucketName).Object(pathName).NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}
	} else {
		rc, err = os.Open(ExpandHome(path))
		if err != nil {
			return nil, pfx.Err(err)
		}
	}

	r, dt, err := MaybeDecompress(rc)
	if err != nil {
		rc.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}

	return &File{Reader: r, DataType: dt, closer: rc}, nil
}

// StorageClientFor returns a Google Storage client if any of paths is a gs://
// path, and nil otherwise.
func StorageClientFor(ctx context.Context, paths ...string) (*storage.Client, error) {
	for _, path := range paths {
		if strings.HasPrefix(path, "gs://") {
			client, err := storage.NewClient(ctx)
			if err != nil {
				return nil, pfx.Err(err)
			}
			return client, nil
		}
	}

	return nil, nil
}
