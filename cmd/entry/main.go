package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cashbook/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record income and expenses from the terminal",
		Long: `entry opens an interactive form that validates a transaction and
submits it to the Cashbook API.

Credentials come from --token / --api-key or the CASHBOOK_TOKEN and
CASHBOOK_API_KEY environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// The form owns the terminal, so logs go to a file or nowhere.
			if path := viper.GetString("log_file"); path != "" {
				return logger.InitFile(viper.GetString("env"), path)
			}
			logger.Init(viper.GetString("env"))
			return nil
		},
		RunE: runForm,
	}

	cmd.PersistentFlags().String("env", "test", "environment (development, production, test); test discards logs")
	cmd.PersistentFlags().String("log-file", "", "write logs to this file instead of discarding them")
	cmd.Flags().String("api-url", "http://localhost:8080", "Cashbook API base URL")
	cmd.Flags().String("token", "", "JWT bearer token")
	cmd.Flags().String("api-key", "", "API key in user:secret form")

	viper.SetEnvPrefix("CASHBOOK")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("env", cmd.PersistentFlags().Lookup("env"))
	_ = viper.BindPFlag("log_file", cmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("api_url", cmd.Flags().Lookup("api-url"))
	_ = viper.BindPFlag("token", cmd.Flags().Lookup("token"))
	_ = viper.BindPFlag("api_key", cmd.Flags().Lookup("api-key"))

	cmd.AddCommand(tokenCmd(), hashKeyCmd())
	return cmd
}
