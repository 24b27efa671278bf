package storagemodels

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// StreamResult represents a single item in a stream with metadata
type StreamResult[T any] struct {
	Item  T                               // The unmarshaled item
	Raw   map[string]types.AttributeValue // Raw DynamoDB attributes
	Error error                           // Item-specific error, if any
	Meta  StreamMeta                      // Metadata about this item
}

// StreamMeta contains metadata about a streamed item
type StreamMeta struct {
	Index      int64     // Item index in stream (0-based)
	PageNumber int       // Page number (1-based)
	Timestamp  time.Time // When item was retrieved
}

// StreamOptions configures streaming behavior. Retries are not configured
// here; transient errors are handled by the retry policy of the underlying
// client, and the first unrecoverable error terminates the stream.
type StreamOptions struct {
	BufferSize      int                  // Channel buffer size (default: 100)
	PageSize        int32                // Items per page (default: 100)
	ProgressHandler func(StreamProgress) // Optional progress callback
}

// StreamProgress tracks streaming progress
type StreamProgress struct {
	ItemsProcessed int64                           // Total items processed
	PagesProcessed int                             // Total pages processed
	LastKey        map[string]types.AttributeValue // Last evaluated key
	StartTime      time.Time                       // When streaming started
	CurrentRate    float64                         // Items per second
}

// StreamOption is a functional option for configuring streaming
type StreamOption func(*StreamOptions)

// DefaultStreamOptions returns default streaming options
func DefaultStreamOptions() StreamOptions {
	return StreamOptions{
		BufferSize: 100,
		PageSize:   100,
	}
}

// WithBufferSize sets the channel buffer size
func WithBufferSize(size int) StreamOption {
	return func(opts *StreamOptions) {
		opts.BufferSize = size
	}
}

// WithPageSize sets the page size
func WithPageSize(size int32) StreamOption {
	return func(opts *StreamOptions) {
		opts.PageSize = size
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(StreamProgress)) StreamOption {
	return func(opts *StreamOptions) {
		opts.ProgressHandler = handler
	}
}
