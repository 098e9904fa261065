package mock

import (
	"fmt"
	"math/rand"
	"time"

	"tweetsearch/pkg/search"
)

var (
	handles = []string{"gopher", "rustacean", "pythonista", "kernel_hacker", "sre_on_call", "data_nerd", "dev_advocate"}
	phrases = []string{
		"just shipped a new release of",
		"hot take about",
		"reading a great thread on",
		"benchmarks are in for",
		"debugging a weird issue with",
		"conference talk on",
	}
)

// tweet implements search.RawItem
type tweet struct {
	author    string
	text      string
	createdAt time.Time
	retweets  int
	favorites int
}

func (t tweet) Author() string       { return t.author }
func (t tweet) Text() string         { return t.text }
func (t tweet) CreatedAt() time.Time { return t.createdAt }
func (t tweet) Retweets() int        { return t.retweets }
func (t tweet) Favorites() int       { return t.favorites }

// generate makes the post at position in the result list. Latest results
// are strictly newest first; Top results skew towards high engagement.
func generate(rng *rand.Rand, query string, mode search.Mode, now time.Time, position int) tweet {
	t := tweet{
		author:    handles[rng.Intn(len(handles))],
		text:      fmt.Sprintf("%s %s #%d", phrases[rng.Intn(len(phrases))], query, position+1),
		retweets:  rng.Intn(200),
		favorites: rng.Intn(1000),
	}

	switch mode {
	case search.ModeLatest:
		t.createdAt = now.Add(-time.Duration(position+1) * time.Minute).Truncate(time.Second)
	case search.ModeMedia:
		t.createdAt = now.Add(-time.Duration(rng.Intn(72*60)) * time.Minute).Truncate(time.Second)
		t.text += fmt.Sprintf(" pic.example.com/%06d", rng.Intn(1000000))
	default:
		t.createdAt = now.Add(-time.Duration(rng.Intn(7*24*60)) * time.Minute).Truncate(time.Second)
		t.retweets *= 5
		t.favorites *= 10
	}
	return t
}
