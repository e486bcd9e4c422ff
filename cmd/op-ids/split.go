package main

import (
	"fmt"
	"os"

	"github.com/gyeh/conflicted-ids/internal/ingest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSplitCmd(v *viper.Viper) *cobra.Command {
	var input, outDir string

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a {conflicteds, payments} bundle into NDJSON files",
		Long: `Split streams a bundle document into one NDJSON file set per top-level
array, so "resolve" can read payments line by line. Roster files are
named conflicteds_*.jsonl and payment files payments_*.jsonl.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(v)
			if err != nil {
				return err
			}
			defer log.Sync()

			res, err := ingest.SplitBundle(input, outDir)
			if err != nil {
				return err
			}
			log.Infow("bundle split", "input", input, "roster_files", len(res.RosterFiles), "payment_files", len(res.PaymentFiles))
			for _, f := range res.RosterFiles {
				fmt.Fprintf(os.Stdout, "roster\t%s\n", f)
			}
			for _, f := range res.PaymentFiles {
				fmt.Fprintf(os.Stdout, "payments\t%s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Bundle JSON file (optionally .gz)")
	cmd.Flags().StringVar(&outDir, "out-dir", "split", "Directory for the NDJSON files")
	cmd.MarkFlagRequired("input")
	return cmd
}
