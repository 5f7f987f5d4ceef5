package pack

import (
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// writeArchive writes parts as a zip container. Every entry gets the same
// modification time and compression level so that equal parts produce
// equal bytes.
func writeArchive(w io.Writer, parts []Part, opts Options) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, opts.Compression)
	})

	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.Name,
			Method:   zip.Deflate,
			Modified: opts.Modified,
		})
		if err != nil {
			return err
		}
		if _, err := fw.Write(p.Data); err != nil {
			return err
		}
	}
	return zw.Close()
}
