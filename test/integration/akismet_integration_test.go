//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/akismet/pkg/akismet"
	"github.com/fivetwenty-io/akismet/pkg/akismetclient"
)

func TestVerifyKey(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	valid, err := config.NewClient(t).VerifyKey(context.Background())
	require.NoError(t, err)
	assert.True(t, valid)

	client, err := akismetclient.New(&akismet.Config{
		APIKey:   "0123456789-ABCDEF",
		Blog:     akismet.NewBlog(config.Blog),
		Endpoint: config.Endpoint,
		IsTest:   true,
	})
	require.NoError(t, err)

	valid, err = client.VerifyKey(context.Background())
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestCheckComment(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx := context.Background()

	t.Run("guaranteed spam", func(t *testing.T) {
		author := NewAuthor()
		author.Name = "viagra-test-123"

		result, err := client.CheckComment(ctx, akismet.NewComment(author, "Hello", akismet.CommentTypeComment))
		require.NoError(t, err)
		assert.True(t, result.IsSpam())
	})

	t.Run("guaranteed ham", func(t *testing.T) {
		author := NewAuthor()
		author.Role = "administrator"

		result, err := client.CheckComment(ctx, akismet.NewComment(author, "Hello", akismet.CommentTypeComment))
		require.NoError(t, err)
		assert.Equal(t, akismet.Ham, result)
	})
}

func TestSubmit(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	comment := akismet.NewComment(NewAuthor(), "Integration test comment", akismet.CommentTypeComment)

	require.NoError(t, client.SubmitHam(context.Background(), comment))
	require.NoError(t, client.SubmitSpam(context.Background(), comment))
}
