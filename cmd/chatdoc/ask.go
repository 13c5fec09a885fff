package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"chatdoc/internal/config"
	"chatdoc/internal/session"
)

func askCMD() *cobra.Command {
	var doc string
	ask := &cobra.Command{
		Use:   "ask",
		Short: "Console session: load a document, then ask questions line by line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			sess, err := session.NewMemoryStore(0).Create(ctx)
			if err != nil {
				return err
			}

			if doc != "" {
				if _, err := os.Stat(doc); err != nil {
					return fmt.Errorf("document not found: %w", err)
				}
				if err := a.IngestFile(ctx, sess, doc); err != nil {
					return err
				}
			}
			return a.Run(ctx, sess, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	ask.Flags().StringVar(&doc, "doc", "", "document to load before reading questions")
	return ask
}
