// Package search answers queries against persisted namespace indexes.
// Index snapshots are cached per namespace; ingestion invalidates the
// cache so queries always see the latest persisted state.
package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/zero-assistant/zeroindex/internal/config"
	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
	"github.com/zero-assistant/zeroindex/internal/rank"
	"github.com/zero-assistant/zeroindex/internal/store"
)

// Result is one ranked fragment returned to the caller.
type Result struct {
	Filename   string  `json:"source_filename"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// Searcher executes BM25 queries over namespace indexes.
type Searcher struct {
	cfg    *config.Config
	cache  *store.SnapshotCache
	params rank.Params
	logger *slog.Logger
}

// New creates a Searcher. cache may be nil to load the index from disk
// on every query.
func New(cfg *config.Config, cache *store.SnapshotCache, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		cfg:    cfg,
		cache:  cache,
		params: rank.Params{K1: cfg.Search.K1, B: cfg.Search.B},
		logger: logger,
	}
}

// Search tokenizes the query and returns the topK fragments ranked by
// BM25 score, ties broken by ascending chunk index. A query with no
// indexable terms is an error; a namespace with no index returns an
// empty result set.
func (s *Searcher) Search(ctx context.Context, namespace, query string, topK int) ([]Result, error) {
	if err := store.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := store.Tokenize(query)
	if len(terms) == 0 {
		return nil, zerrors.ValidationError(zerrors.ErrCodeQueryEmpty,
			"query contains no searchable terms")
	}
	if topK <= 0 {
		topK = s.cfg.Search.TopK
	}

	ix, err := s.snapshot(namespace)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scored := rank.Score(ix, terms, topK, s.params)

	results := make([]Result, 0, len(scored))
	for _, sc := range scored {
		results = append(results, Result{
			Filename:   sc.Fragment.SourceFilename,
			ChunkIndex: sc.Fragment.ChunkIndex,
			Text:       sc.Fragment.Text,
			Score:      sc.Score,
		})
	}

	s.logger.Debug("query executed",
		"namespace", namespace,
		"terms", len(terms),
		"fragments", ix.Len(),
		"results", len(results),
		"duration", time.Since(start))

	return results, nil
}

// snapshot returns the namespace index, from cache when available.
func (s *Searcher) snapshot(namespace string) (*store.Index, error) {
	if s.cache != nil {
		if ix, ok := s.cache.Get(namespace); ok {
			return ix, nil
		}
	}

	st := store.NewStore(s.cfg.NamespaceDir(namespace), nil, false)
	ix, err := st.Load()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Add(namespace, ix)
	}
	return ix, nil
}
