package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gyeh/conflicted-ids/internal/config"
	"github.com/gyeh/conflicted-ids/internal/logging"
	"github.com/gyeh/conflicted-ids/internal/progress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, stopping after in-flight people...")
		cancel()
	}()

	err := newRootCmd(config.NewViper()).ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "op-ids",
		Short: "Link conflicted providers to their Open Payments profile IDs",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if cfgFile == "" {
				return nil
			}
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config %s: %w", cfgFile, err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "YAML config file (flags and OPIDS_* env vars override it)")
	pf.String(config.KeyLogLevel, "info", "Log level (debug, info, warn, error)")
	pf.String(config.KeyLogFormat, "console", "Log format (console, json)")
	pf.Bool(config.KeyNoProgress, false, "Disable progress bars")
	pf.String(config.KeyRegion, "us-east-1", "AWS region for s3:// inputs and outputs")
	pf.Bool(config.KeyStdGzip, false, "Use compress/gzip instead of parallel pgzip")

	root.AddCommand(newResolveCmd(v))
	root.AddCommand(newSplitCmd(v))
	root.AddCommand(newUniquesCmd(v))
	return root
}

func newLogger(v *viper.Viper) (*zap.SugaredLogger, error) {
	log, err := logging.New(v.GetString(config.KeyLogLevel), v.GetString(config.KeyLogFormat))
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

func newProgress(v *viper.Viper) progress.Manager {
	if v.GetBool(config.KeyNoProgress) {
		return &progress.NoopManager{}
	}
	if fi, err := os.Stderr.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
		return progress.NewLogManager()
	}
	return progress.NewMPBManager()
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
