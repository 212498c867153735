// Package synology provides a session-authenticated client for the
// Synology File Station web API and adapts it to the [provider.Provider]
// contract.
//
// A [Client] owns one HTTP client and one mutable session state
// (session id plus optional CSRF token). The state moves through
// unauthenticated → authenticated via [Client.Login] and is released by
// [Client.Close]. Listing calls never re-authenticate implicitly, with one
// deliberate exception: [Client.ListShares] logs in with the stored
// credentials when no session exists, mirroring the way a share listing is
// the first call a fresh client makes against a NAS.
//
// # Errors
//
// Transport failures (DNS, refused connection, TLS) are distinguishable
// from protocol-level rejections: the former satisfy
// errors.Is(err, provider.ErrConnection), the latter carry the remote
// error code in a [*Error] and satisfy provider.ErrUnauthenticated or
// provider.ErrPermissionDenied depending on the operation.
//
//	entries, err := c.ListFiles(ctx, "/music")
//	if e, ok := synology.AsError(err); ok {
//	    log.Printf("NAS rejected the request: code %d", e.Code)
//	}
//
// Every call is a single attempt. Retry policy, if any, belongs to the
// caller; a silent retry here would mask credential problems.
package synology
