// Package dispatch routes the host's single startup request to a registered operation
// and writes the response envelope.
//
// The host spawns one process per query or action and passes the request as the only
// extra argument. The dispatcher decodes it, resolves the method through an explicit
// registration table, applies the parameters, and writes exactly one JSON line to stdout.
//
// Key features:
//   - Startup-time operation registry (no reflection)
//   - Arity checking per operation
//   - Positional list spreading, single-argument objects, zero-argument absence
//   - Exactly one stdout write per request, none when no request is supplied
//   - Panic recovery so a failing operation still yields a valid envelope
//
// Error handling:
//   - Undecodable request or wrong arity → protocol.ErrMalformedRequest, nothing written
//   - Unregistered method → ErrUnknownMethod, nothing written
//   - Operation failures → never returned; operations report them as result rows
package dispatch
