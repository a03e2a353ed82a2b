package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/akismet/internal/worker"
	"github.com/fivetwenty-io/akismet/pkg/akismet"
)

var errUnavailable = errors.New("service unavailable")

type fakeClient struct {
	result akismet.CheckResult
	valid  bool
	err    error
	calls  []string
}

func (f *fakeClient) CheckComment(_ context.Context, comment *akismet.Comment) (akismet.CheckResult, error) {
	f.calls = append(f.calls, "check:"+comment.Content)

	return f.result, f.err
}

func (f *fakeClient) SubmitHam(_ context.Context, comment *akismet.Comment) error {
	f.calls = append(f.calls, "ham:"+comment.Content)

	return f.err
}

func (f *fakeClient) SubmitSpam(_ context.Context, comment *akismet.Comment) error {
	f.calls = append(f.calls, "spam:"+comment.Content)

	return f.err
}

func (f *fakeClient) VerifyKey(context.Context) (bool, error) {
	f.calls = append(f.calls, "verify")

	return f.valid, f.err
}

func decodeReply(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()

	var reply map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &reply))

	return reply
}

func TestNew(t *testing.T) {
	t.Parallel()

	w := worker.New(&fakeClient{})
	assert.Equal(t, "akismet.requests", w.Subject())

	w = worker.New(&fakeClient{}, worker.WithSubject("spam.check"), worker.WithQueue("q"))
	assert.Equal(t, "spam.check", w.Subject())

	require.ErrorIs(t, w.Stop(), worker.ErrNotStarted)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestWorker_Handle(t *testing.T) {
	t.Parallel()

	comment := `{"user_ip":"192.0.2.1","user_agent":"Mozilla/5.0","comment_content":"Buy now"}`

	t.Run("check", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{result: akismet.PervasiveSpam}
		w := worker.New(client)

		reply := decodeReply(t, w.Handle(context.Background(),
			[]byte(`{"id":"42","operation":"check","comment":`+comment+`}`)))

		assert.Equal(t, map[string]interface{}{
			"id":        "42",
			"operation": "check",
			"result":    "pervasive-spam",
			"spam":      true,
		}, reply)
		assert.Equal(t, []string{"check:Buy now"}, client.calls)
	})

	t.Run("ham verdict", func(t *testing.T) {
		t.Parallel()

		w := worker.New(&fakeClient{result: akismet.Ham})

		reply := decodeReply(t, w.Handle(context.Background(),
			[]byte(`{"id":"1","operation":"check","comment":`+comment+`}`)))

		assert.Equal(t, "ham", reply["result"])
		assert.Equal(t, false, reply["spam"])
	})

	t.Run("submissions", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{}
		w := worker.New(client)

		for _, operation := range []string{"submit-ham", "submit-spam"} {
			reply := decodeReply(t, w.Handle(context.Background(),
				[]byte(`{"id":"1","operation":"`+operation+`","comment":`+comment+`}`)))
			assert.Equal(t, operation, reply["operation"])
			assert.NotContains(t, reply, "error")
		}

		assert.Equal(t, []string{"ham:Buy now", "spam:Buy now"}, client.calls)
	})

	t.Run("verify key", func(t *testing.T) {
		t.Parallel()

		w := worker.New(&fakeClient{valid: true})

		reply := decodeReply(t, w.Handle(context.Background(), []byte(`{"id":"7","operation":"verify-key"}`)))
		assert.Equal(t, true, reply["valid"])
	})

	t.Run("assigns an id", func(t *testing.T) {
		t.Parallel()

		w := worker.New(&fakeClient{valid: true})

		reply := decodeReply(t, w.Handle(context.Background(), []byte(`{"operation":"verify-key"}`)))
		assert.NotEmpty(t, reply["id"])
	})

	t.Run("invalid JSON", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{}
		w := worker.New(client)

		reply := decodeReply(t, w.Handle(context.Background(), []byte(`{not json`)))
		assert.NotEmpty(t, reply["id"])
		assert.Contains(t, reply["error"], "invalid job")
		assert.Empty(t, client.calls)
	})

	t.Run("missing comment", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{}
		w := worker.New(client)

		reply := decodeReply(t, w.Handle(context.Background(), []byte(`{"id":"1","operation":"check"}`)))
		assert.Equal(t, "comment is required for this operation", reply["error"])
		assert.Empty(t, client.calls)
	})

	t.Run("unknown operation", func(t *testing.T) {
		t.Parallel()

		w := worker.New(&fakeClient{})

		reply := decodeReply(t, w.Handle(context.Background(), []byte(`{"id":"1","operation":"delete"}`)))
		assert.Equal(t, `unknown operation: "delete"`, reply["error"])
	})

	t.Run("client error", func(t *testing.T) {
		t.Parallel()

		w := worker.New(&fakeClient{err: errUnavailable})

		reply := decodeReply(t, w.Handle(context.Background(),
			[]byte(`{"id":"1","operation":"check","comment":`+comment+`}`)))
		assert.Equal(t, "service unavailable", reply["error"])
		assert.NotContains(t, reply, "result")
	})
}

func TestWorker_Run(t *testing.T) {
	t.Parallel()

	w := worker.New(&fakeClient{result: akismet.Spam})

	reply := w.Run(context.Background(), &worker.Job{
		ID:        "1",
		Operation: worker.OperationCheck,
		Comment:   akismet.NewComment(akismet.NewAuthor("192.0.2.1", "Mozilla/5.0"), "Hi", akismet.CommentTypeComment),
	})

	require.NotNil(t, reply.Result)
	assert.Equal(t, akismet.Spam, *reply.Result)
	require.NotNil(t, reply.Spam)
	assert.True(t, *reply.Spam)
	assert.Empty(t, reply.Error)
}
