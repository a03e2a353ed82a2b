// Package akismet provides types, interfaces, and helpers for working with the
// Akismet spam-detection service.
//
// # Overview
//
// The package defines the records sent to the service (Author, Blog and
// Comment), the verdict of a check (CheckResult), the Client interface and
// its configuration (Config). A concrete client is provided by the
// akismetclient package:
//
//	cli, err := akismetclient.New(&akismet.Config{
//	  APIKey: "0123456789-ABCDEF",
//	  Blog:   akismet.NewBlog("https://www.example.com"),
//	})
//	if err != nil { log.Fatal(err) }
//
//	result, err := cli.CheckComment(ctx, comment)
//
// # Wire format
//
// Every record has a Values method returning the form fields posted to the
// service, using the Akismet field names (comment_author, user_ip, blog,
// ...). Empty fields are omitted and dates are sent in UTC as
// "2006-01-02T15:04:05+00:00". The same names are used by the JSON
// encoding of the records.
//
// # Errors
//
// Invalid configurations are reported by errors wrapping ErrInvalidConfig.
// Failed requests return a *ClientError whose Kind is ErrTransport,
// ErrHTTPStatus, ErrDebugHelp or ErrUnexpectedResponse. A response carrying
// the X-Akismet-Debug-Help header is always an error, whatever its status.
// Nothing is retried.
//
// # Interceptors
//
// InterceptorChain runs request and response hooks around every call; the
// package ships logging, header and metrics interceptors.
package akismet
