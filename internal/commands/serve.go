package commands

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/config"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/events"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/events/kafka"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/runlog"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/server"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/store/postgres"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analytics HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			st, err := postgres.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connecting to store: %w", err)
			}
			defer st.Close()

			var pub events.Publisher = events.Nop{}
			if len(cfg.KafkaBrokers) > 0 {
				kp := kafka.NewPublisher(cfg.KafkaBrokers)
				defer kp.Close()
				pub = kp
				log.Printf("publishing analytics events to %v", cfg.KafkaBrokers)
			}

			srv := server.New(st, pub, runlog.New(cfg.LogDir), cfg.HTTPAddr)
			return srv.ListenAndServe()
		},
	}
}
