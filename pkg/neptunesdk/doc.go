// Package neptunesdk is a typed Go client for the NeptuneOS API service.
//
// Unauthenticated operations (Register, Login, health probes, the legacy
// settings endpoints) hang off SDKClient. Login returns a Session, which
// carries the bearer token and exposes the operations that require it.
//
//	client := neptunesdk.NewSDKClient("http://localhost:3001")
//
//	session, err := client.Login(ctx, "alice", "password1")
//	if err != nil {
//		// *neptunesdk.APIError carries the HTTP status and server message
//	}
//
//	me, err := session.Me(ctx)
//	_ = session.Logout(ctx)
//
// The SDK does not refresh or re-issue tokens; when a session expires the
// next call fails with a 403 APIError and the caller logs in again.
package neptunesdk
