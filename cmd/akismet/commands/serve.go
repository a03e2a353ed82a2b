package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/akismet/internal/constants"
	"github.com/fivetwenty-io/akismet/internal/worker"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var (
		natsURL string
		subject string
		queue   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer Akismet requests received over NATS",
		Long: `Subscribe to a NATS subject and answer the Akismet requests published on it.

Each request is a JSON document with an id, an operation (check, submit-ham,
submit-spam or verify-key) and, except for verify-key, a comment made of wire
fields. Several instances sharing the same queue group split the load.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFactory(loadConfig())
			if err != nil {
				return err
			}

			logger := NewLogger()

			conn, err := worker.Connect(natsURL, "akismet-worker", logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := worker.New(client,
				worker.WithLogger(logger),
				worker.WithSubject(subject),
				worker.WithQueue(queue),
			)

			err = w.Start(ctx, conn)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s (queue %s)\n", subject, queue)

			<-ctx.Done()

			err = w.Stop()
			if err != nil {
				return err
			}

			// Replies published by the last jobs must reach the server before Close.
			return conn.FlushTimeout(constants.DefaultHTTPTimeout)
		},
	}

	cmd.Flags().StringVar(&natsURL, "nats-url", constants.DefaultNATSURL, "NATS server URL")
	cmd.Flags().StringVar(&subject, "subject", constants.DefaultSubject, "subject to subscribe to")
	cmd.Flags().StringVar(&queue, "queue", constants.DefaultQueueGroup, "queue group shared by workers")

	return cmd
}
