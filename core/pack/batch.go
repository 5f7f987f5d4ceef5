package pack

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/tribal2/docx/core/document"
	"github.com/tribal2/docx/internal/logging"
)

// SerializeAll serializes independent documents on up to workers
// goroutines. Results are in input order. The first failure cancels the
// remaining work and is returned. No document may be mutated while the
// call runs.
func (s *Serializer) SerializeAll(ctx context.Context, docs []*document.Document, workers int) ([][]byte, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([][]byte, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			data, err := s.Serialize(logging.WithSessionID(ctx, "doc-"+strconv.Itoa(i)), doc)
			if err != nil {
				return err
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
