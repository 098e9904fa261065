// Package search retrieves posts matching a query from a backend that
// rate limits, paginates and fails intermittently.
//
// The backend is reached only through SessionProvider, Session and Cursor.
// Driver runs the outer loop: a fresh session and an initial fetch per
// attempt, with a fixed pause after a session failure, a rate limit wait
// after a rate limited fetch and a fixed pause after anything else. Once an
// initial fetch succeeds, Paginator takes over and keeps fetching pages,
// pausing a random 5 to 10 seconds before each, until the minimum item count
// is reached or results run out. Page level errors are absorbed there.
// Normalize numbers the collected items 1..N.
//
// Searcher.Search ties it together and never returns an error; an empty
// result means nothing could be retrieved.
//
//	searcher := search.NewSearcher(provider, search.OptionsFromConfig(cfg))
//	items := searcher.Search(ctx, search.DefaultRequest("#golang"))
package search
