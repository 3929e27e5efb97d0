// Package export ships finalized decision traces to Cloud Storage so the
// audit and reporting collaborators can consume them without touching the
// warehouse. Exported objects are write-once.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/walletwise/insights/internal/domain"
)

const uploadTimeout = 2 * time.Minute

// TraceWriter is the storage surface the exporter needs. It enables
// mocking in tests without a live bucket.
type TraceWriter interface {
	// WriteTrace stores the serialized trace under objectName. Returns
	// ErrAlreadyExported when the object already exists.
	WriteTrace(ctx context.Context, objectName string, data []byte) error
}

// ErrAlreadyExported marks an attempt to overwrite a previously exported
// trace object.
var ErrAlreadyExported = errors.New("trace already exported")

// GCSTraceWriter writes trace objects into a single bucket using a
// write-once precondition.
type GCSTraceWriter struct {
	client *storage.Client
	bucket string
}

// NewGCSTraceWriter opens a storage client for the given bucket. It assumes
// Application Default Credentials are configured.
func NewGCSTraceWriter(ctx context.Context, bucket string) (*GCSTraceWriter, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewGCSTraceWriter: creating storage client: %w", err)
	}
	return &GCSTraceWriter{client: client, bucket: bucket}, nil
}

func (w *GCSTraceWriter) Close() error {
	return w.client.Close()
}

// WriteTrace uploads one object. The DoesNotExist condition makes the
// upload fail rather than clobber an existing export.
func (w *GCSTraceWriter) WriteTrace(ctx context.Context, objectName string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	obj := w.client.Bucket(w.bucket).Object(objectName).If(storage.Conditions{DoesNotExist: true})
	wr := obj.NewWriter(ctx)
	wr.ContentType = "application/json"

	if _, err := wr.Write(data); err != nil {
		_ = wr.Close()
		return fmt.Errorf("WriteTrace: writing object %q: %w", objectName, err)
	}
	if err := wr.Close(); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed {
			return fmt.Errorf("WriteTrace: object %q: %w", objectName, ErrAlreadyExported)
		}
		return fmt.Errorf("WriteTrace: finalizing object %q: %w", objectName, err)
	}
	return nil
}

// Exporter serializes traces and hands them to a TraceWriter.
type Exporter struct {
	writer TraceWriter
}

func NewExporter(writer TraceWriter) *Exporter {
	return &Exporter{writer: writer}
}

// Export writes one trace as a JSON object. Object names embed the user,
// window and trace id so a re-run of the same analysis lands in a new
// object instead of colliding.
func (e *Exporter) Export(ctx context.Context, trace *domain.DecisionTrace) (string, error) {
	if trace == nil {
		return "", fmt.Errorf("Export: nil trace")
	}
	data, err := json.Marshal(trace)
	if err != nil {
		return "", fmt.Errorf("Export: marshaling trace %s: %w", trace.TraceID, err)
	}

	name := ObjectName(trace)
	if err := e.writer.WriteTrace(ctx, name, data); err != nil {
		return "", fmt.Errorf("Export: %w", err)
	}
	return name, nil
}

// ObjectName builds the canonical object path for a trace.
func ObjectName(trace *domain.DecisionTrace) string {
	return fmt.Sprintf("traces/%s/%dd/%s.json", trace.UserID, trace.WindowDays, trace.TraceID)
}
