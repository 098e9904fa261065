package search

import (
	"context"
	"time"
)

// SessionProvider hands out authenticated sessions. Each call may return a
// fresh session; sessions are never shared across attempts.
type SessionProvider interface {
	Session(ctx context.Context) (Session, error)
}

// Session issues the initial search for a query
type Session interface {
	Search(ctx context.Context, query string, mode Mode, count int) (Cursor, error)
}

// Cursor is one page of results plus the ability to fetch the next one.
// A nil cursor or one with no items means the results are exhausted.
type Cursor interface {
	Items() []RawItem
	Next(ctx context.Context) (Cursor, error)
}

// RawItem is a result record as produced by the backend
type RawItem interface {
	Author() string
	Text() string
	CreatedAt() time.Time
	Retweets() int
	Favorites() int
}
