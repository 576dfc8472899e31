// Package gtaw provides a Go client library for the Twitter REST and
// streaming APIs with OAuth 1.0 (HMAC-SHA1) and HTTP Basic authentication.
//
// The library is built around a small pipeline: an endpoint descriptor
// (types.Operation) plus parameters is resolved into an invocation, the
// invocation is signed by a credentials variant, and the signed request is
// executed by a transport. Responses are decoded by per-operation format
// codecs (JSON by default, form-encoded for the OAuth handshake).
//
// Basic usage:
//
//	client, err := gtaw.NewClient(&gtaw.Config{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	creds, err := gtaw.NewTokenCredentials(consumerKey, consumerSecret, accessKey, accessSecret)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	timeline, err := client.Call(ctx, creds, types.Operation{
//		Method: "GET",
//		Path:   "statuses/home_timeline",
//	}, nil)
//
// Streaming endpoints are consumed through Flow, which returns a Stream of
// decoded messages. Empty keep-alive lines are filtered out before they
// reach the consumer, and the underlying connection is released on every
// exit path:
//
//	stream, err := client.Flow(ctx, creds, gtaw.SampleStream, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer stream.Close()
//
//	for {
//		msg, err := stream.Next()
//		if err == io.EOF {
//			break
//		}
//		if err != nil {
//			log.Fatal(err)
//		}
//		handle(msg)
//	}
//
// Obtaining an access token follows the three-legged OAuth handshake:
//
//	app, _ := gtaw.NewApplicationCredentials(consumerKey, consumerSecret)
//	temp, err := client.RequestTemporaryCredentials(ctx, app, "")
//	// send the user to the authorization URL, collect the PIN/verifier
//	authURL, _ := client.AuthorizationURL(temp)
//	token, err := client.ConfirmCredentials(ctx, temp, verifier)
//
// Requests can be rate-limited client-side by configuring a throttler; see
// the throttle package for the composable throttler algebra. The library
// performs no retries of its own: retry policy is a caller concern layered
// on top of throttlers or external loops.
package gtaw
