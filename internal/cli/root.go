// Package cli implements the secdoc command line tool.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sloppycoder/sec-doc-tool/config"
	"github.com/sloppycoder/sec-doc-tool/edgar"
	"github.com/sloppycoder/sec-doc-tool/storage"
)

var (
	cfg   *config.Config
	store storage.Store

	flagLogLevel string
	flagLogJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "secdoc",
	Short: "Chunk and tag SEC filings",
	Long: `secdoc fetches SEC 485BPOS filings from EDGAR, splits them into
pages and size-bounded text chunks, and optionally tags each chunk with a
language model.

Filings are addressed as cik/accession pairs, e.g.
  secdoc chunk 1002427/0001133228-24-004879
  secdoc chunk -f filings.txt --workers 8
  secdoc tag 1002427/0001133228-24-004879`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := cfg.LogLevel
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		if lvl, err := log.ParseLevel(level); err == nil {
			log.SetLevel(lvl)
		}
		if flagLogJSON {
			log.SetFormatter(log.JSONFormatter)
		}

		store, err = storage.Open(cfg.StoragePrefix)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "emit logs as JSON")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newEdgarClient() *edgar.Client {
	return edgar.NewClient(
		edgar.WithUserAgent(cfg.EdgarUserAgent),
		edgar.WithStore(store),
	)
}

// filingRef is one cik/accession pair to process.
type filingRef struct {
	CIK             string
	AccessionNumber string
}

func (r filingRef) String() string { return r.CIK + "/" + r.AccessionNumber }

// docList resolves the filings to process from a positional argument or a
// file of cik/accession pairs, one per line, # comments allowed.
func docList(args []string, file string) ([]filingRef, error) {
	var entries []string
	switch {
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("reading doc list: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" && !strings.HasPrefix(line, "#") {
				entries = append(entries, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading doc list: %w", err)
		}
	case len(args) > 0:
		entries = args
	default:
		return nil, fmt.Errorf("specify a cik/accession pair or a doc list with -f")
	}

	refs := make([]filingRef, 0, len(entries))
	for _, entry := range entries {
		cik, accession, ok := strings.Cut(strings.TrimSpace(entry), "/")
		if !ok || cik == "" || accession == "" {
			return nil, fmt.Errorf("malformed cik/accession pair: %q", entry)
		}
		refs = append(refs, filingRef{CIK: cik, AccessionNumber: accession})
	}
	return refs, nil
}
