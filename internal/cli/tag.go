package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	secdoc "github.com/sloppycoder/sec-doc-tool"
	"github.com/sloppycoder/sec-doc-tool/tagging"
)

var (
	tagFile    string
	tagModel   string
	tagAPIBase string
	tagAPIKey  string
)

var tagCmd = &cobra.Command{
	Use:   "tag [cik/accession...]",
	Short: "Tag the chunks of filings with a language model",
	Long: `Run the tagging model over every chunk of each filing, storing a
summary and content tags alongside the chunks. Filings are chunked first
when no cached chunks exist.

Examples:
  secdoc tag 1002427/0001133228-24-004879
  secdoc tag -f filings.txt --model gpt-4o-mini`,
	RunE: runTag,
}

func init() {
	tagCmd.Flags().StringVarP(&tagFile, "file", "f", "", "file with cik/accession pairs, one per line")
	tagCmd.Flags().StringVarP(&tagModel, "model", "m", "", "model to use for tagging (overrides config)")
	tagCmd.Flags().StringVar(&tagAPIBase, "api-base", "", "API base for an OpenAI-compatible server")
	tagCmd.Flags().StringVar(&tagAPIKey, "api-key", "", "API key for the tagging endpoint")
	rootCmd.AddCommand(tagCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	refs, err := docList(args, tagFile)
	if err != nil {
		return err
	}

	tagCfg := *cfg
	if tagModel != "" {
		tagCfg.TaggingModel = tagModel
	}
	if tagAPIBase != "" {
		tagCfg.TaggingAPIBase = tagAPIBase
	}
	if tagAPIKey != "" {
		tagCfg.TaggingAPIKey = tagAPIKey
	}

	tagger, err := tagging.NewTagger(&tagCfg)
	if err != nil {
		return err
	}

	builder := secdoc.NewBuilder(
		secdoc.WithEdgarClient(newEdgarClient()),
		secdoc.WithStore(store),
	)

	ctx := cmd.Context()
	bar := progressbar.Default(int64(len(refs)), "tagging")

	for _, ref := range refs {
		doc, err := builder.Build(ctx, ref.CIK, ref.AccessionNumber)
		if err != nil {
			return fmt.Errorf("%s: %w", ref, err)
		}
		if err := builder.TagChunks(ctx, doc, tagger); err != nil {
			return fmt.Errorf("%s: %w", ref, err)
		}

		log.Info("tagged filing", "filing", ref.String(), "chunks", len(doc.TextChunks))
		_ = bar.Add(1)
	}

	fmt.Printf("\ntagged %d filing(s)\n", len(refs))
	return nil
}
