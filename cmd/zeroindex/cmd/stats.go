package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zero-assistant/zeroindex/internal/store"
)

func newStatsCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show ingestion statistics for a namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, namespace)
		},
	}

	addNamespaceFlag(cmd, &namespace, "Namespace to report on")

	return cmd
}

func runStats(cmd *cobra.Command, namespace string) error {
	if err := store.ValidateNamespace(namespace); err != nil {
		return err
	}

	registry, err := store.OpenRegistry(cfg.RegistryPath())
	if err != nil {
		return logErr(err, "cannot open registry")
	}
	defer registry.Close()

	stats, err := registry.Stats(cmd.Context(), namespace)
	if err != nil {
		return logErr(err, "cannot compute stats", "namespace", namespace)
	}

	records, err := registry.List(cmd.Context(), namespace)
	if err != nil {
		return logErr(err, "cannot list documents", "namespace", namespace)
	}

	return newOutputWriter().Stats(stats, records)
}
