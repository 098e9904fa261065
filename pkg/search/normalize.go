package search

import "time"

// Item is a normalized search result. Sequence numbers run 1..N in the
// order the items were collected.
type Item struct {
	Sequence  int       `json:"tweet_count"`
	Author    string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Retweets  int       `json:"retweets"`
	Favorites int       `json:"favorites"`
}

// Normalize flattens raw items, numbering them from 1 in input order
func Normalize(raw []RawItem) []Item {
	items := make([]Item, 0, len(raw))
	for i, r := range raw {
		items = append(items, Item{
			Sequence:  i + 1,
			Author:    r.Author(),
			Text:      r.Text(),
			CreatedAt: r.CreatedAt(),
			Retweets:  r.Retweets(),
			Favorites: r.Favorites(),
		})
	}
	return items
}

// Raw exposes the item through the RawItem interface
func (it Item) Raw() RawItem {
	return itemView{it}
}

type itemView struct {
	item Item
}

func (v itemView) Author() string       { return v.item.Author }
func (v itemView) Text() string         { return v.item.Text }
func (v itemView) CreatedAt() time.Time { return v.item.CreatedAt }
func (v itemView) Retweets() int        { return v.item.Retweets }
func (v itemView) Favorites() int       { return v.item.Favorites }
