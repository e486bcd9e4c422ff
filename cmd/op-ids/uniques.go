package main

import (
	"fmt"
	"os"

	"github.com/gyeh/conflicted-ids/internal/config"
	"github.com/gyeh/conflicted-ids/internal/ingest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// uniquesReport lists the distinct values seen across payment inputs.
type uniquesReport struct {
	Credentials  []string                     `json:"credentials"`
	Specialties  []string                     `json:"specialties"`
	PaymentTypes map[ingest.Category][]string `json:"payment_types,omitempty"`
}

func newUniquesCmd(v *viper.Viper) *cobra.Command {
	var (
		payments    []string
		paymentsCSV []string
		outputPath  string
	)

	cmd := &cobra.Command{
		Use:   "uniques",
		Short: "List the distinct credentials, specialties and payment types in payment inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			csvInputs, err := config.ParseCSVInputs(paymentsCSV)
			if err != nil {
				return err
			}
			if len(payments) == 0 && len(csvInputs) == 0 {
				return config.ErrNoPayments
			}

			locations := append([]string{}, payments...)
			for _, in := range csvInputs {
				locations = append(locations, in.Location)
			}
			mgr := newProgress(v)
			ld, err := newLoader(ctx, v.GetString(config.KeyRegion), v.GetBool(config.KeyStdGzip), mgr, locations, outputPath)
			if err != nil {
				return err
			}

			u := ingest.NewUniques()
			for _, loc := range payments {
				if _, err := ld.paymentsNDJSON(ctx, loc, u); err != nil {
					mgr.Wait()
					return err
				}
			}
			for _, in := range csvInputs {
				if _, _, err := ld.paymentsCSV(ctx, in, ingest.CSVOptions{Uniques: u}); err != nil {
					mgr.Wait()
					return err
				}
			}
			mgr.Wait()

			report := uniquesReport{
				Credentials:  u.Credentials(),
				Specialties:  u.Specialties(),
				PaymentTypes: u.PaymentTypes(),
			}
			if err := writeJSON(ctx, outputPath, report, ld); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%d credentials, %d specialties\n", len(report.Credentials), len(report.Specialties))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&payments, config.KeyPayments, nil, "Payment records as NDJSON (repeatable)")
	cmd.Flags().StringArrayVar(&paymentsCSV, config.KeyPaymentsCSV, nil, "Raw Open Payments CSV as category=path (repeatable)")
	cmd.Flags().StringVarP(&outputPath, config.KeyOutput, "o", "-", "Output path ('-' for stdout)")
	return cmd
}
