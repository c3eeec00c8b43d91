// Package ingest orchestrates the ingestion pipeline: extract text,
// chunk and tokenize it, append the fragments to the namespace index,
// and record the document in the registry. Writers are serialized with
// a cross-process file lock.
package ingest

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/zero-assistant/zeroindex/internal/chunk"
	"github.com/zero-assistant/zeroindex/internal/config"
	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
	"github.com/zero-assistant/zeroindex/internal/extract"
	"github.com/zero-assistant/zeroindex/internal/store"
)

// maxExtractWorkers bounds parallel extraction in batch ingestion.
// Extraction is CPU and (for OCR) network heavy; index appends stay
// serialized regardless.
const maxExtractWorkers = 4

// File is one document handed to the ingestor.
type File struct {
	Name string
	Data []byte
}

// Result reports the outcome for one document. Err is set when the
// document failed; the rest of the batch is unaffected.
type Result struct {
	Filename         string
	FragmentsAdded   int
	FragmentsDropped int
	TotalFragments   int
	Err              error
}

// Ingestor runs the ingestion pipeline for any namespace.
type Ingestor struct {
	cfg       *config.Config
	extractor *extract.Extractor
	chunker   *chunk.Chunker
	registry  *store.Registry
	cache     *store.SnapshotCache
	logger    *slog.Logger
}

// New creates an Ingestor. registry and cache may be nil; bookkeeping
// and cache invalidation are then skipped.
func New(cfg *config.Config, extractor *extract.Extractor, chunker *chunk.Chunker,
	registry *store.Registry, cache *store.SnapshotCache, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		cfg:       cfg,
		extractor: extractor,
		chunker:   chunker,
		registry:  registry,
		cache:     cache,
		logger:    logger,
	}
}

// Ingest runs the full pipeline for a single document. Extraction runs
// before the lock is taken, so a document that yields no text never
// touches the index.
func (in *Ingestor) Ingest(ctx context.Context, namespace, filename string, data []byte) (Result, error) {
	if err := store.ValidateNamespace(namespace); err != nil {
		return Result{Filename: filename}, err
	}

	text, err := in.extractor.Extract(ctx, filename, data)
	if err != nil {
		return Result{Filename: filename}, err
	}

	lock := NewNamespaceLock(in.cfg.NamespaceDir(namespace))
	if err := lock.Lock(); err != nil {
		return Result{Filename: filename}, zerrors.IndexIOError(zerrors.ErrCodeIndexWrite,
			"cannot lock namespace for ingestion", err)
	}
	defer func() { _ = lock.Unlock() }()

	res, err := in.append(ctx, namespace, filename, text)
	if err != nil {
		return Result{Filename: filename}, err
	}
	return res, nil
}

// IngestAll ingests a batch into one namespace. Extraction runs in a
// bounded worker pool; appends are serialized under a single lock so
// chunk indices stay contiguous. Per-document failures land in the
// returned results, they do not abort the batch. The error return
// covers batch-level failures only (bad namespace, lock, persistence).
func (in *Ingestor) IngestAll(ctx context.Context, namespace string, files []File) ([]Result, error) {
	if err := store.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	texts := make([]string, len(files))
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxExtractWorkers)
	var mu sync.Mutex

	for i, f := range files {
		g.Go(func() error {
			text, err := in.extractor.Extract(gctx, f.Name, f.Data)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// The batch continues past extraction failures, but a
				// cancelled context aborts it.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				in.logger.Warn("extraction failed",
					"filename", f.Name, "error", err)
				results[i] = Result{Filename: f.Name, Err: err}
				return nil
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lock := NewNamespaceLock(in.cfg.NamespaceDir(namespace))
	if err := lock.Lock(); err != nil {
		return nil, zerrors.IndexIOError(zerrors.ErrCodeIndexWrite,
			"cannot lock namespace for ingestion", err)
	}
	defer func() { _ = lock.Unlock() }()

	for i, f := range files {
		if results[i].Err != nil {
			continue
		}
		res, err := in.append(ctx, namespace, f.Name, texts[i])
		if err != nil {
			if zerrors.GetCategory(err) == zerrors.CategoryIndex {
				return results, err
			}
			results[i] = Result{Filename: f.Name, Err: err}
			continue
		}
		results[i] = res
	}

	return results, nil
}

// append writes one extracted document into the index and registry.
// Callers hold the namespace lock.
func (in *Ingestor) append(ctx context.Context, namespace, filename, text string) (Result, error) {
	st := store.NewStore(in.cfg.NamespaceDir(namespace), in.chunker,
		in.cfg.Index.Reingest == config.ReingestReplace)

	ix, appended, err := st.AppendDocument(filename, text)
	if err != nil {
		return Result{}, err
	}

	if in.cache != nil {
		in.cache.Invalidate(namespace)
	}

	if in.registry != nil {
		if _, err := in.registry.Record(ctx, namespace, filename, appended.FragmentsAdded); err != nil {
			// The index write already succeeded; registry bookkeeping
			// failure is logged, not fatal.
			in.logger.Warn("registry record failed",
				"namespace", namespace, "filename", filename, "error", err)
		}
	}

	in.logger.Info("document ingested",
		"namespace", namespace,
		"filename", filename,
		"fragments_added", appended.FragmentsAdded,
		"fragments_dropped", appended.FragmentsDropped,
		"total_fragments", ix.Len())

	return Result{
		Filename:         filename,
		FragmentsAdded:   appended.FragmentsAdded,
		FragmentsDropped: appended.FragmentsDropped,
		TotalFragments:   appended.TotalFragments,
	}, nil
}
