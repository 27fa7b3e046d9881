package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	secdoc "github.com/sloppycoder/sec-doc-tool"
	"github.com/sloppycoder/sec-doc-tool/pagesplit"
)

var statsFile string

var statsCmd = &cobra.Command{
	Use:   "stats [cik/accession...]",
	Short: "Report page-break selector and chunk statistics for filings",
	Long: `Rebuild each filing and report how many pages and chunks it
produced, plus which page-break indicators fired across the batch. Useful
when tuning the splitter against a new crop of filings.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsFile, "file", "f", "", "file with cik/accession pairs, one per line")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	refs, err := docList(args, statsFile)
	if err != nil {
		return err
	}

	// rebuild so the splitter actually runs; fetched files still come
	// from the store
	builder := secdoc.NewBuilder(
		secdoc.WithEdgarClient(newEdgarClient()),
		secdoc.WithStore(store),
		secdoc.WithRefresh(true),
	)

	pagesplit.ResetStats()

	ctx := cmd.Context()
	for _, ref := range refs {
		doc, err := builder.Build(ctx, ref.CIK, ref.AccessionNumber)
		if err != nil {
			return fmt.Errorf("%s: %w", ref, err)
		}
		fmt.Printf("%-40s pages=%-5d chunks=%-5d filed=%s\n",
			ref, len(doc.HTMLPages), len(doc.TextChunks), doc.DateFiled)
	}

	stats := pagesplit.Stats()
	if len(stats) == 0 {
		fmt.Println("\nno page-break indicators fired")
		return nil
	}

	selectors := make([]string, 0, len(stats))
	for sel := range stats {
		selectors = append(selectors, sel)
	}
	sort.Strings(selectors)

	fmt.Println("\npage-break indicators:")
	for _, sel := range selectors {
		c := stats[sel]
		fmt.Printf("  %-28s documents=%-5d elements=%d\n", sel, c.Documents, c.Elements)
	}
	return nil
}
