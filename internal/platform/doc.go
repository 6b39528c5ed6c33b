// Package platform defines how a renderer acquires images without knowing
// which host it runs in.
//
// Service is the capability interface. NativeService is the implementation
// for ordinary processes: it owns one long-lived *http.Client, sends every
// request with the "galileo/0.1" user agent, and delegates decoding to an
// ImageDecoder.
//
// Errors from URL-based calls are *Error values classified by Kind. A
// response with a non-2xx status is KindIO and is logged once, at info level,
// to the injected *slog.Logger together with its body. Failures before a
// status is known are KindTransport and wrap the net/http error, so
// errors.Is(err, context.Canceled) keeps working. Decode failures pass
// through unchanged.
package platform
