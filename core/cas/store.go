// Package cas provides a content-addressed store for produced packages.
// Packages are stored xz-compressed under their BLAKE3 digest, which
// deduplicates identical output, and every Put is recorded in a SQLite
// index so stored packages can be listed by name and time.
package cas

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/ulikunitz/xz"
	"golang.org/x/sync/singleflight"

	"github.com/tribal2/docx/core/cache"
	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/pack"
	"github.com/tribal2/docx/core/sqlite"
	"github.com/tribal2/docx/internal/logging"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// tempFileWrite is a function variable for writing to temp files (for testing).
var tempFileWrite = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// xzNewWriter is a function variable for creating the compressor (for testing).
var xzNewWriter = func(w io.Writer) (io.WriteCloser, error) {
	return xz.NewWriter(w)
}

// IndexFile is the name of the index database under the store root.
const IndexFile = "index.db"

// digestPattern matches a lowercase BLAKE3-256 hex digest.
var digestPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

const schema = `
CREATE TABLE IF NOT EXISTS packages (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	name      TEXT    NOT NULL,
	digest    TEXT    NOT NULL,
	size      INTEGER NOT NULL,
	parts     INTEGER NOT NULL,
	stored_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS packages_digest ON packages (digest);
`

// Record is one index row.
type Record struct {
	Name     string
	Digest   string
	Size     int64 // Uncompressed package size
	Parts    int
	StoredAt time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock overrides the time source used for StoredAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithCache sets the bounds of the in-memory cache of decompressed
// packages. A zero Config disables the bounds, not the cache.
func WithCache(config cache.Config) Option {
	return func(s *Store) { s.cacheConfig = config }
}

// ReadOnly opens an existing store without creating or migrating it.
// Put fails with errors.ErrUnsupported, and a root without an index is
// reported as errors.ErrNotFound.
func ReadOnly() Option {
	return func(s *Store) { s.readOnly = true }
}

// Store is a package store rooted at a directory. It is safe for
// concurrent use.
type Store struct {
	root   string
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
	writes singleflight.Group

	readOnly bool

	cacheConfig cache.Config
	blobs       *cache.LRU[string, []byte]
}

// NewStore opens the store at root, creating the blob directory and the
// index database if they do not exist. With ReadOnly nothing is created.
func NewStore(root string, opts ...Option) (*Store, error) {
	s := &Store{root: root, now: time.Now, cacheConfig: cache.DefaultConfig()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}

	var err error
	if s.readOnly {
		s.db, err = s.openIndexReadOnly()
	} else {
		s.db, err = s.openIndex()
	}
	if err != nil {
		return nil, err
	}
	s.blobs = cache.New[string, []byte](s.cacheConfig, func(b []byte) int64 { return int64(len(b)) })
	return s, nil
}

func (s *Store) openIndex() (*sql.DB, error) {
	blobDir := filepath.Join(s.root, "blobs", "blake3")
	if err := os.MkdirAll(blobDir, 0o755); err != nil {
		return nil, errors.NewIO("mkdir", blobDir, err)
	}

	dbPath := filepath.Join(s.root, IndexFile)
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, errors.NewIO("open", dbPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewIO("migrate", dbPath, err)
	}
	return db, nil
}

func (s *Store) openIndexReadOnly() (*sql.DB, error) {
	dbPath := filepath.Join(s.root, IndexFile)
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("store", s.root)
		}
		return nil, errors.NewIO("stat", dbPath, err)
	}
	db, err := sqlite.OpenReadOnly(dbPath)
	if err != nil {
		return nil, errors.NewIO("open", dbPath, err)
	}
	return db, nil
}

// Close closes the index database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Root returns the store directory.
func (s *Store) Root() string {
	return s.root
}

// Put stores a package under name. data must be a readable package; the
// blob is written once per digest and every call adds an index row.
func (s *Store) Put(ctx context.Context, name string, data []byte) (Record, error) {
	if s.readOnly {
		return Record{}, errors.Wrapf(errors.ErrUnsupported, "put into read-only store %s", s.root)
	}
	if name == "" {
		return Record{}, errors.NewValidation("name", "name is required")
	}
	r, err := pack.Open(data)
	if err != nil {
		return Record{}, err
	}

	digest := pack.Digest(data)
	if _, err, _ := s.writes.Do(digest, func() (any, error) {
		return nil, s.writeBlob(digest, data)
	}); err != nil {
		return Record{}, err
	}

	rec := Record{
		Name:     name,
		Digest:   digest,
		Size:     int64(len(data)),
		Parts:    len(r.PartNames()),
		StoredAt: s.now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO packages (name, digest, size, parts, stored_at) VALUES (?, ?, ?, ?, ?)`,
		rec.Name, rec.Digest, rec.Size, rec.Parts, rec.StoredAt.UnixNano())
	if err != nil {
		return Record{}, errors.NewIO("insert", filepath.Join(s.root, IndexFile), err)
	}

	logging.BlobStored(s.logger, digest, name, rec.Size, "parts", rec.Parts)
	return rec, nil
}

// writeBlob compresses data and writes it atomically unless the blob
// already exists.
func (s *Store) writeBlob(digest string, data []byte) error {
	blobPath := s.pathForDigest(digest)
	if _, err := os.Stat(blobPath); err == nil {
		return nil
	}

	var buf bytes.Buffer
	xw, err := xzNewWriter(&buf)
	if err != nil {
		return errors.NewInternal("compress", "create xz writer: %v", err)
	}
	if _, err := xw.Write(data); err != nil {
		return errors.NewInternal("compress", "write xz stream: %v", err)
	}
	if err := xw.Close(); err != nil {
		return errors.NewInternal("compress", "close xz stream: %v", err)
	}

	prefixDir := filepath.Dir(blobPath)
	if err := os.MkdirAll(prefixDir, 0o755); err != nil {
		return errors.NewIO("mkdir", prefixDir, err)
	}
	tempFile, err := os.CreateTemp(prefixDir, ".blob-*")
	if err != nil {
		return errors.NewIO("create", prefixDir, err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFileWrite(tempFile, buf.Bytes()); err != nil {
		tempFile.Close()
		return errors.NewIO("write", tempPath, err)
	}
	if err := tempFile.Close(); err != nil {
		return errors.NewIO("close", tempPath, err)
	}
	if err := osRename(tempPath, blobPath); err != nil {
		return errors.NewIO("rename", blobPath, err)
	}
	return nil
}

// Get returns the package stored under digest. The decompressed content
// is checked against the digest before it is returned or cached.
func (s *Store) Get(digest string) ([]byte, error) {
	if !isValidDigest(digest) {
		return nil, errors.NewValidation("digest", fmt.Sprintf("%q is not a BLAKE3 hex digest", digest))
	}
	if data, ok := s.blobs.Get(digest); ok {
		return bytes.Clone(data), nil
	}
	data, err := s.readBlob(digest)
	if err != nil {
		return nil, err
	}
	s.blobs.Put(digest, data)
	return bytes.Clone(data), nil
}

// CacheStats reports the state of the decompressed package cache.
func (s *Store) CacheStats() cache.Stats {
	return s.blobs.Stats()
}

func (s *Store) readBlob(digest string) ([]byte, error) {
	blobPath := s.pathForDigest(digest)
	f, err := os.Open(blobPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("package", digest)
		}
		return nil, errors.NewIO("open", blobPath, err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return nil, &errors.ParseError{Format: "xz", Path: blobPath, Message: "corrupt blob", Err: err}
	}
	data, err := io.ReadAll(xr)
	if err != nil {
		return nil, &errors.ParseError{Format: "xz", Path: blobPath, Message: "corrupt blob", Err: err}
	}
	if got := pack.Digest(data); got != digest {
		return nil, errors.NewInternal("get", "blob %s has digest %s", digest, got)
	}
	return data, nil
}

// Exists reports whether a package with the given digest is stored.
func (s *Store) Exists(digest string) bool {
	if !isValidDigest(digest) {
		return false
	}
	_, err := os.Stat(s.pathForDigest(digest))
	return err == nil
}

// List returns every index row, newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, digest, size, parts, stored_at FROM packages ORDER BY stored_at DESC, id DESC`)
	if err != nil {
		return nil, errors.NewIO("query", filepath.Join(s.root, IndexFile), err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec      Record
			storedAt int64
		)
		if err := rows.Scan(&rec.Name, &rec.Digest, &rec.Size, &rec.Parts, &storedAt); err != nil {
			return nil, errors.NewIO("scan", filepath.Join(s.root, IndexFile), err)
		}
		rec.StoredAt = time.Unix(0, storedAt).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("query", filepath.Join(s.root, IndexFile), err)
	}
	return out, nil
}

// pathForDigest returns the file path for a blob.
// Blobs are stored at: <root>/blobs/blake3/<first2>/<digest>.xz
func (s *Store) pathForDigest(digest string) string {
	return filepath.Join(s.root, "blobs", "blake3", digest[:2], digest+".xz")
}

func isValidDigest(digest string) bool {
	return digestPattern.MatchString(digest)
}
