package cmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zero-assistant/zeroindex/internal/search"
	"github.com/zero-assistant/zeroindex/internal/store"
)

func newQueryCmd() *cobra.Command {
	var namespace string
	var topK int

	cmd := &cobra.Command{
		Use:   "query [terms...]",
		Short: "Search a namespace index",
		Long: `Runs a BM25 keyword query against the namespace index and prints
the best matching fragments with their source filenames and scores.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, namespace, strings.Join(args, " "), topK)
		},
	}

	addNamespaceFlag(cmd, &namespace, "Namespace to search")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0,
		"Number of results to return (0 uses the configured default)")

	return cmd
}

func runQuery(cmd *cobra.Command, namespace, query string, topK int) error {
	cache, err := store.NewSnapshotCache(cfg.Search.CacheSize)
	if err != nil {
		return err
	}

	searcher := search.New(cfg, cache, slog.Default())

	results, err := searcher.Search(cmd.Context(), namespace, query, topK)
	if err != nil {
		return logErr(err, "query failed", "namespace", namespace)
	}

	return newOutputWriter().SearchResults(query, results)
}
