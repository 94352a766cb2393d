package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/personakit/personakit/ingest"
)

func ingestCmd() *cobra.Command {
	var (
		knowledgeID string
		chunkSize   int
		overlap     int
	)

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Chunk, embed, and index a text source into the knowledge index",
		Long: "Ingest replaces all existing content under the knowledge ID with " +
			"fixed-size overlapping chunks of the given text file.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.close()

			n, err := ingest.IndexFile(cmd.Context(), d.retriever, knowledgeID, args[0], ingest.Options{
				ChunkSize: chunkSize,
				Overlap:   overlap,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Indexed %d chunks from %s into %s.\n", n, args[0], knowledgeID)
			return nil
		},
	}

	cmd.Flags().StringVar(&knowledgeID, "knowledge-id", "", "knowledge index name (required)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", ingest.DefaultChunkSize, "chunk size in runes")
	cmd.Flags().IntVar(&overlap, "overlap", ingest.DefaultOverlap, "overlap between consecutive chunks in runes")
	cmd.MarkFlagRequired("knowledge-id")
	return cmd
}
