package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cashbook/internal/client"
	"cashbook/internal/form"
	"cashbook/internal/logger"
	"cashbook/internal/models"
	"cashbook/internal/tui"
	"cashbook/internal/validator"
)

func runForm(cmd *cobra.Command, _ []string) error {
	token, apiKey := viper.GetString("token"), viper.GetString("api_key")
	if token == "" && apiKey == "" {
		return errors.New("no credentials: pass --token or --api-key")
	}

	var opts []client.Option
	if token != "" {
		opts = append(opts, client.WithBearerToken(token))
	}
	if apiKey != "" {
		opts = append(opts, client.WithAPIKey(apiKey))
	}
	api := client.New(viper.GetString("api_url"), &http.Client{Timeout: 15 * time.Second}, opts...)

	ctrl := form.New(nil, func(ctx context.Context, p validator.Payload) error {
		tx, err := api.CreateTransaction(ctx, p)
		if err != nil {
			return err
		}
		logger.Get().Debugw("transaction saved", "id", tx.ID)
		return nil
	})
	loader := func(ctx context.Context) ([]models.Category, error) {
		return api.ListCategories(ctx)
	}

	// Cancelling ctx on exit abandons any submission still in flight.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	_, err := tea.NewProgram(tui.New(ctx, ctrl, loader), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
