package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	secdoc "github.com/sloppycoder/sec-doc-tool"
	"github.com/sloppycoder/sec-doc-tool/chunker"
)

var (
	chunkFile    string
	chunkWorkers int
	chunkRefresh bool
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [cik/accession...]",
	Short: "Fetch filings and split them into text chunks",
	Long: `Fetch each filing's primary document from EDGAR and split it into
pages and text chunks. Results are cached in the configured store; cached
filings are skipped unless --refresh is given.

Examples:
  secdoc chunk 1002427/0001133228-24-004879
  secdoc chunk -f filings.txt --workers 8 --refresh`,
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().StringVarP(&chunkFile, "file", "f", "", "file with cik/accession pairs, one per line")
	chunkCmd.Flags().IntVar(&chunkWorkers, "workers", 4, "number of filings processed in parallel")
	chunkCmd.Flags().BoolVar(&chunkRefresh, "refresh", false, "rebuild even when a cached document exists")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	refs, err := docList(args, chunkFile)
	if err != nil {
		return err
	}

	client := newEdgarClient()
	bar := progressbar.Default(int64(len(refs)), "chunking")

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(chunkWorkers)

	for _, ref := range refs {
		g.Go(func() error {
			// one builder per task so each carries its own lazily
			// loaded sentence model
			builder := secdoc.NewBuilder(
				secdoc.WithEdgarClient(client),
				secdoc.WithStore(store),
				secdoc.WithChunker(chunker.New(
					chunker.WithChunkSize(cfg.ChunkSize),
					chunker.WithMinChunkLength(cfg.MinChunkLength),
				)),
				secdoc.WithRefresh(chunkRefresh),
			)

			doc, err := builder.Build(ctx, ref.CIK, ref.AccessionNumber)
			if err != nil {
				return fmt.Errorf("%s: %w", ref, err)
			}

			log.Info("chunked filing", "filing", ref.String(),
				"pages", len(doc.HTMLPages), "chunks", len(doc.TextChunks))
			_ = bar.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("\nchunked %d filing(s)\n", len(refs))
	return nil
}
