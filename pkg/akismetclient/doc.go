/*
Package akismetclient creates clients for the Akismet spam-detection service.

Basic usage:

	import (
		"context"
		"log"

		"github.com/fivetwenty-io/akismet/pkg/akismet"
		"github.com/fivetwenty-io/akismet/pkg/akismetclient"
	)

	func main() {
		ctx := context.Background()

		client, err := akismetclient.New(&akismet.Config{
			APIKey: "0123456789-ABCDEF",
			Blog:   akismet.NewBlog("https://www.example.com", "en"),
		})
		if err != nil {
			log.Fatal(err)
		}

		author := akismet.NewAuthor("192.168.0.1", "Mozilla/5.0")
		comment := akismet.NewComment(author, "A user comment.", akismet.CommentTypeComment)

		result, err := client.CheckComment(ctx, comment)
		if err != nil {
			log.Fatal(err)
		}

		log.Printf("verdict: %s", result)
	}

Configuration errors are reported by New before any request is sent; use
akismet.IsConfigurationError to detect them. Comments failing validation
are rejected with akismet.ErrInvalidComment, and failed requests return an
*akismet.ClientError.
*/
package akismetclient
