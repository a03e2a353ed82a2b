// Package worker serves Akismet requests received over NATS.
//
// A request is a JSON document:
//
//	{"id": "42", "operation": "check", "comment": {"user_ip": "...", "comment_content": "..."}}
//
// and the reply carries the same id and operation, plus either the result
// or an error message.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/akismet/internal/constants"
	"github.com/fivetwenty-io/akismet/pkg/akismet"
)

// Operations accepted by the worker.
const (
	OperationCheck      = "check"
	OperationSubmitHam  = "submit-ham"
	OperationSubmitSpam = "submit-spam"
	OperationVerifyKey  = "verify-key"
)

// Static errors for err113 compliance.
var (
	ErrAlreadyStarted = errors.New("worker already started")
	ErrNotStarted     = errors.New("worker not started")
	ErrDrainTimeout   = errors.New("timed out draining subscription")
)

const drainPollInterval = 10 * time.Millisecond

// Job is a request received by the worker.
type Job struct {
	ID        string           `json:"id,omitempty"`
	Operation string           `json:"operation"`
	Comment   *akismet.Comment `json:"comment,omitempty"`
}

// Reply is the answer sent back for a Job.
type Reply struct {
	ID        string               `json:"id"`
	Operation string               `json:"operation"`
	Result    *akismet.CheckResult `json:"result,omitempty"`
	Spam      *bool                `json:"spam,omitempty"`
	Valid     *bool                `json:"valid,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// Worker answers jobs with an akismet.Client.
type Worker struct {
	client  akismet.Client
	logger  akismet.Logger
	subject string
	queue   string
	timeout time.Duration
	drain   time.Duration

	mu  sync.Mutex
	sub *nats.Subscription
}

// Option configures a Worker.
type Option func(*Worker)

// WithLogger sets the logger.
func WithLogger(logger akismet.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// WithSubject sets the subject the worker listens on.
func WithSubject(subject string) Option {
	return func(w *Worker) {
		w.subject = subject
	}
}

// WithQueue sets the queue group shared by worker instances.
func WithQueue(queue string) Option {
	return func(w *Worker) {
		w.queue = queue
	}
}

// WithTimeout bounds the handling of each job.
func WithTimeout(timeout time.Duration) Option {
	return func(w *Worker) {
		w.timeout = timeout
	}
}

// WithDrainTimeout bounds how long Stop waits for in-flight jobs.
func WithDrainTimeout(timeout time.Duration) Option {
	return func(w *Worker) {
		w.drain = timeout
	}
}

// New creates a worker.
func New(client akismet.Client, opts ...Option) *Worker {
	worker := &Worker{
		client:  client,
		logger:  nopLogger{},
		subject: constants.DefaultSubject,
		queue:   constants.DefaultQueueGroup,
		timeout: constants.DefaultHTTPTimeout,
		drain:   constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(worker)
	}

	return worker
}

// Subject returns the subject the worker listens on.
func (w *Worker) Subject() string {
	return w.subject
}

// Start subscribes to the worker subject. Jobs are handled until Stop is
// called. Cancelling ctx does not abort jobs already received: each job
// keeps the values of ctx but only its own timeout.
func (w *Worker) Start(ctx context.Context, conn *nats.Conn) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sub != nil {
		return ErrAlreadyStarted
	}

	sub, err := conn.QueueSubscribe(w.subject, w.queue, func(msg *nats.Msg) {
		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
		defer cancel()

		err := msg.Respond(w.Handle(jobCtx, msg.Data))
		if err != nil {
			w.logger.Error("Failed to send reply", map[string]interface{}{
				"subject": msg.Subject,
				"error":   err.Error(),
			})
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", w.subject, err)
	}

	w.sub = sub
	w.logger.Info("Worker started", map[string]interface{}{
		"subject": w.subject,
		"queue":   w.queue,
	})

	return nil
}

// Stop drains the subscription and waits until the jobs already received
// have been answered, or the drain timeout expires.
func (w *Worker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sub == nil {
		return ErrNotStarted
	}

	sub := w.sub
	w.sub = nil

	err := sub.Drain()
	if err != nil {
		return fmt.Errorf("draining subscription: %w", err)
	}

	err = waitDrained(sub, w.drain)
	if err != nil {
		return err
	}

	w.logger.Info("Worker stopped", map[string]interface{}{"subject": w.subject})

	return nil
}

// waitDrained blocks until sub is no longer valid, which nats.go signals
// once the drain has delivered every pending message.
func waitDrained(sub *nats.Subscription, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for sub.IsValid() {
		select {
		case <-deadline.C:
			return fmt.Errorf("%w after %s", ErrDrainTimeout, timeout)
		case <-ticker.C:
		}
	}

	return nil
}

// Handle decodes a job, runs it and encodes the reply.
func (w *Worker) Handle(ctx context.Context, data []byte) []byte {
	var job Job

	err := json.Unmarshal(data, &job)
	if err != nil {
		return w.encode(&Reply{ID: uuid.NewString(), Error: fmt.Sprintf("invalid job: %v", err)})
	}

	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	reply := w.Run(ctx, &job)

	return w.encode(reply)
}

// Run executes a decoded job.
func (w *Worker) Run(ctx context.Context, job *Job) *Reply {
	reply := &Reply{ID: job.ID, Operation: job.Operation}

	err := w.dispatch(ctx, job, reply)
	if err != nil {
		reply.Error = err.Error()
		w.logger.Warn("Job failed", map[string]interface{}{
			"id":        job.ID,
			"operation": job.Operation,
			"error":     err.Error(),
		})

		return reply
	}

	w.logger.Debug("Job done", map[string]interface{}{
		"id":        job.ID,
		"operation": job.Operation,
	})

	return reply
}

func (w *Worker) dispatch(ctx context.Context, job *Job, reply *Reply) error {
	switch job.Operation {
	case OperationCheck:
		if job.Comment == nil {
			return constants.ErrMissingCommentData
		}

		result, err := w.client.CheckComment(ctx, job.Comment)
		if err != nil {
			return err
		}

		spam := result.IsSpam()
		reply.Result = &result
		reply.Spam = &spam
	case OperationSubmitHam:
		if job.Comment == nil {
			return constants.ErrMissingCommentData
		}

		return w.client.SubmitHam(ctx, job.Comment)
	case OperationSubmitSpam:
		if job.Comment == nil {
			return constants.ErrMissingCommentData
		}

		return w.client.SubmitSpam(ctx, job.Comment)
	case OperationVerifyKey:
		valid, err := w.client.VerifyKey(ctx)
		if err != nil {
			return err
		}

		reply.Valid = &valid
	default:
		return fmt.Errorf("%w: %q", constants.ErrUnknownOperation, job.Operation)
	}

	return nil
}

func (w *Worker) encode(reply *Reply) []byte {
	data, err := json.Marshal(reply)
	if err != nil {
		w.logger.Error("Failed to encode reply", map[string]interface{}{"error": err.Error()})

		return []byte(`{"error":"internal error"}`)
	}

	return data
}

// Connect opens a NATS connection that logs connection state changes.
func Connect(url, name string, logger akismet.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = nopLogger{}
	}

	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			fields := map[string]interface{}{"url": url}
			if err != nil {
				fields["error"] = err.Error()
			}

			logger.Warn("NATS disconnected", fields)
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			logger.Info("NATS reconnected", map[string]interface{}{"url": conn.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	return conn, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
