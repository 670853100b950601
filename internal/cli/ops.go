package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"certhub/internal/platform/config"
	"certhub/internal/platform/kafka"
	kafkaconsumer "certhub/internal/platform/kafka/consumer"
	"certhub/internal/platform/logger"
	"certhub/internal/platform/postgres"
	"certhub/migrations"
	"certhub/pkg/platform/audit"
	auditconsumer "certhub/pkg/platform/audit/consumer"
	"certhub/pkg/platform/middleware/auth"
)

// MigrateCommand applies pending schema migrations.
func MigrateCommand() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return errors.New("--database-url or DATABASE_URL is required")
			}
			ctx := cmd.Context()
			db, err := postgres.Open(ctx, databaseURL, postgres.DefaultOptions())
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := migrations.Apply(ctx, db)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "schema is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(out, "applied %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string (defaults to DATABASE_URL)")
	return cmd
}

// TokenCommand signs a bearer token for local development.
func TokenCommand() *cobra.Command {
	var (
		actor string
		roles []string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development bearer token",
		Long: `Sign an HS256 bearer token with JWT_SIGNING_KEY and JWT_ISSUER.

Examples:
  certctl token --actor inspector-7
  certctl token --actor qs-2 --role reviewer --ttl 8h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			signed, err := auth.NewHS256Validator(cfg.JWTSigningKey, cfg.JWTIssuer).Sign(actor, roles, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Actor id placed in the subject claim")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "Role to grant (repeatable)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("actor")
	return cmd
}

// EventsCommand groups commands that read the certificate event topic.
func EventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect certificate events relayed to Kafka",
	}
	cmd.AddCommand(eventsTailCommand())
	return cmd
}

func eventsTailCommand() *cobra.Command {
	var (
		brokers string
		topic   string
		group   string
		actions []string
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print certificate events as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			brokerList := kafka.ParseBrokers(brokers)
			if len(brokerList) == 0 {
				brokerList = cfg.Kafka.Brokers
			}
			if topic == "" {
				topic = cfg.Kafka.ReviewTopic
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, "text")

			router := auditconsumer.NewRouter(log).
				Register(topic, auditconsumer.NewReviewHandler(&printSink{cmd: cmd}, log, actions...))
			client, err := kafka.NewClient(
				kafka.Config{Brokers: brokerList, ClientID: cfg.Kafka.ClientID + "-certctl"},
				kafkaconsumer.GroupOptions(group, router.Topics()...)...,
			)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return kafkaconsumer.New(client, log).Run(ctx, router)
		},
	}

	cmd.Flags().StringVar(&brokers, "brokers", "", "Comma separated brokers (defaults to KAFKA_BROKERS)")
	cmd.Flags().StringVar(&topic, "topic", "", "Topic to read (defaults to KAFKA_REVIEW_TOPIC)")
	cmd.Flags().StringVar(&group, "group", "certctl-tail", "Consumer group")
	cmd.Flags().StringSliceVar(&actions, "action", nil, "Only print these event types (repeatable)")
	return cmd
}

// printSink writes each event as one JSON line.
type printSink struct {
	cmd *cobra.Command
}

type printedEvent struct {
	Timestamp     time.Time `json:"timestamp"`
	CertificateID string    `json:"certificate_id"`
	Action        string    `json:"action"`
	Transition    string    `json:"transition,omitempty"`
	ActorID       string    `json:"actor_id,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Comments      string    `json:"comments,omitempty"`
	Fingerprint   string    `json:"fingerprint,omitempty"`
}

func (p *printSink) Append(_ context.Context, event audit.Event) error {
	line := printedEvent{
		Timestamp:     event.Timestamp,
		CertificateID: event.CertificateID.String(),
		Action:        event.Action,
		ActorID:       event.ActorID,
		Reason:        event.Reason,
		Comments:      event.Comments,
		Fingerprint:   event.Fingerprint,
	}
	if event.FromStatus != "" || event.ToStatus != "" {
		line.Transition = strings.TrimSpace(event.FromStatus + " -> " + event.ToStatus)
	}
	return json.NewEncoder(p.cmd.OutOrStdout()).Encode(line)
}

var _ auditconsumer.Sink = (*printSink)(nil)
