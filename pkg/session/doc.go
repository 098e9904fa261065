// Package session supplies search sessions backed by a platform client.
//
// CachedProvider creates a new client for every session request. If the
// cookie cache holds cookies they are loaded into the client; otherwise the
// provider fetches credentials, logs in and caches the resulting cookies.
// Any failure along the way is reported as a session failure so the search
// driver can apply its session retry delay.
//
// PacedProvider and PacedSession put a ratelimit.Limiter in front of the
// initial search and every next-page fetch.
package session
