package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/operator-framework/usage-metering/pkg/usage"
)

// Store persists the summary of each run.
type Store interface {
	// Write stores the summary. An existing summary for the same hour is
	// overwritten.
	Write(ctx context.Context, summary *usage.RunSummary) error
}

var (
	// FileStorePerms are the permissions files and directories storing run
	// summaries are created with.
	FileStorePerms os.FileMode = 0755
)

// Name returns the relative path a summary is stored under:
// YYYY/MM/DD/<hour start unix>.json
func Name(summary *usage.RunSummary) string {
	start := summary.Window.Hour.Start.UTC()
	return path.Join(start.Format("2006/01/02"), fmt.Sprintf("%d.json", start.Unix()))
}

// NewStore configures a Store from a URL with either an s3:// or file://
// scheme. An empty URL returns a nil Store.
func NewStore(in string, s3API s3iface.S3API) (Store, error) {
	if in == "" {
		return nil, nil
	}
	u, err := url.Parse(in)
	if err != nil {
		return nil, fmt.Errorf("a valid path with scheme (s3:// or file://) must be given: %v", err)
	}

	switch u.Scheme {
	case "file":
		return NewFileStore(u.Path)
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("no bucket given in '%s'", in)
		}
		return NewS3Store(s3API, u.Host, strings.TrimPrefix(u.Path, "/")), nil
	default:
		return nil, fmt.Errorf("unknown scheme '%s' given, please provide either s3:// or file://", u.Scheme)
	}
}

// NewFileStore creates a store which writes summaries below the given path.
func NewFileStore(dir string) (FileStore, error) {
	dir = filepath.Clean(dir)
	if file, err := os.Stat(dir); err != nil {
		// don't throw error if just doesn't exist
		if !os.IsNotExist(err) {
			return FileStore{}, fmt.Errorf("could not access path '%s': %v", dir, err)
		}

		if err = os.MkdirAll(dir, FileStorePerms); err != nil {
			return FileStore{}, fmt.Errorf("could not create directory '%s': %v", dir, err)
		}
	} else if !file.IsDir() {
		return FileStore{}, fmt.Errorf("the path '%s' is a file", dir)
	}

	return FileStore{
		directory: dir,
	}, nil
}

// FileStore is a simple implementation of Store which writes files to disk.
type FileStore struct {
	directory string
}

// FileStore must implement the Store interface
var _ Store = FileStore{}

func (f FileStore) Write(ctx context.Context, summary *usage.RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("could not encode run summary: %v", err)
	}

	summaryPath := f.Path(summary)
	if err = os.MkdirAll(filepath.Dir(summaryPath), FileStorePerms); err != nil {
		return fmt.Errorf("could not create directory for '%s': %v", summaryPath, err)
	}
	if err = ioutil.WriteFile(summaryPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write run summary to '%s': %v", summaryPath, err)
	}
	return nil
}

// Path returns the path where the given summary is stored.
func (f FileStore) Path(summary *usage.RunSummary) string {
	return filepath.Join(f.directory, filepath.FromSlash(Name(summary)))
}
