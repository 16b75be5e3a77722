// Package core provides the transport layer of the Lumen SDK: the
// authenticated HTTP client, retry policy, error normalization, and the
// input normalizer shared by every capability package.
//
// # Client
//
// The primary entry point is [Client], constructed once at startup and passed
// to the capability packages (content, image, moderation, search, vision,
// extract, docdb). Client is immutable after construction and safe for
// concurrent use:
//
//	client, err := core.New(os.Getenv("LUMEN_API_KEY"),
//	    core.WithMaxRetries(5),
//	    core.WithDebug(os.Stderr),
//	)
//
// # Requests
//
// Capability packages build their request bodies and delegate transport to
// [Client.PostJSON], [Client.PostMultipart], or [Client.PostStream]. Each call
// attaches bearer-token auth and diagnostic headers, performs the HTTP
// exchange, and retries failed attempts per the configured [RetryPolicy]
// before normalizing the failure into an [*APIError].
//
// # Error Handling
//
// Sentinel errors classify failures for errors.Is:
//   - [ErrUnauthorized]: invalid or missing API key
//   - [ErrRateLimited]: platform rate limit exceeded
//   - [ErrBadRequest]: the platform rejected the request parameters
//   - [ErrServer]: platform server error (5xx)
//   - [ErrNetwork]: network connectivity failure
//   - [ErrDecode]: response parsing failed
//
// Validation errors (missing required parameters, invalid dimensions) are
// produced by the capability packages before any network call and are never
// retried.
//
// # Streaming
//
// [Client.PostStream] returns a [TextStream] that forwards the raw response
// body as it arrives. The stream is single-pass: Ch emits text deltas in
// order, Err emits at most one error, and Final emits once on completion.
// All three channels are closed when the stream ends.
//
// # Input Normalization
//
// [Input] accepts a file or image in any supported shape (in-memory bytes or
// reader, HTTP(S) URL, data URI, local path) and resolves it to a binary
// payload for upload. See [Input.Payload].
package core
