// Package services implements clients for the hosted collaboration backend.
//
// The backend is an external, authoritative service for multi-user data:
// bands, members, invitations, chat and shared setlists. This package only
// consumes it over HTTP and WebSocket; nothing here persists locally.
//
// [Client] is the shared transport: base URL, bearer token, JSON encoding
// and client-side rate limiting. [BandService], [ChatService] and
// [SharedSetlistService] layer entity operations on top. Chat additionally
// supports a push-style [Subscription] for new messages over WebSocket.
package services
