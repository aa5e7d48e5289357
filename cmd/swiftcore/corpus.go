package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"swiftcore/internal/propcheck"
)

var (
	corpusDir    string
	corpusFormat string
)

func init() {
	corpusCmd.PersistentFlags().StringVar(&corpusDir, "corpus", "", "failure corpus directory (default from config)")
	corpusListCmd.Flags().StringVar(&corpusFormat, "format", "pretty", "output format (pretty|json)")
	corpusCmd.AddCommand(corpusListCmd)
	corpusCmd.AddCommand(corpusClearCmd)
}

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect the failure corpus",
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored failing cases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		corpus, err := openCorpus()
		if err != nil {
			return err
		}
		failures, err := corpus.List()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "corpus: %v\n", err)
		}
		switch strings.ToLower(corpusFormat) {
		case "pretty":
			renderCorpusPretty(cmd.OutOrStdout(), corpus.Dir(), failures)
			return nil
		case "json":
			if failures == nil {
				failures = []*propcheck.Failure{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(failures)
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", corpusFormat)
		}
	},
}

var corpusClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored failing case",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		corpus, err := openCorpus()
		if err != nil {
			return err
		}
		n, err := corpus.Clear()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries from %s\n", n, corpus.Dir())
		return nil
	},
}

func openCorpus() (*propcheck.Corpus, error) {
	dir := cfg.Check.Corpus
	if corpusDir != "" {
		dir = corpusDir
	}
	corpus, err := propcheck.OpenCorpus(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	return corpus, nil
}

func renderCorpusPretty(out io.Writer, dir string, failures []*propcheck.Failure) {
	if len(failures) == 0 {
		fmt.Fprintf(out, "corpus %s is empty\n", dir)
		return
	}
	width := 0
	for _, f := range failures {
		width = max(width, runewidth.StringWidth(f.Property))
	}
	for _, f := range failures {
		fmt.Fprintf(out, "%s  %s  seed=%d size=%d", f.Key(), runewidth.FillRight(f.Property, width), f.Seed, f.Size)
		if f.Code != "" {
			fmt.Fprintf(out, " %s", f.Code)
		}
		fmt.Fprintf(out, "  %s\n", runewidth.Truncate(f.Message, 60, "..."))
	}
}
