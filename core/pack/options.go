package pack

import (
	"log/slog"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/tribal2/docx/internal/logging"
)

// Options controls package output.
type Options struct {
	// Compression is the flate level for every part.
	Compression int
	// Modified is the modification time stamped on every archive entry.
	// A fixed value keeps output byte-stable.
	Modified time.Time
	// VerifyParts re-parses every generated part before packaging.
	VerifyParts bool
	// Logger receives part and package events. Nil uses the global logger.
	Logger *slog.Logger
}

// DefaultOptions returns byte-stable defaults.
func DefaultOptions() Options {
	return Options{
		Compression: flate.DefaultCompression,
		Modified:    time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC),
		VerifyParts: true,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.GetLogger()
	}
	return o.Logger
}
