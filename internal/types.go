package internal

import "time"

type Link struct {
	ID        int64     `json:"-"`
	Shortlink string    `json:"shortlink"`
	Longlink  string    `json:"longlink"`
	Hits      int64     `json:"hits"`
	CreatedAt time.Time `json:"created_at"`
}
