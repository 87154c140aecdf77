package entity

import "time"

// Ad is a posted classified. The poster is identified only by a salted hash
// of their IP address.
type Ad struct {
	ID           int64
	Title        string
	Body         string
	Location     string
	ContactEmail string
	RelayEmail   string
	PhotoKey     string
	IPHash       string
	RepostCount  int32
	UpVotes      int32
	DownVotes    int32
	IsActive     bool
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// CreateAd is the insert shape for a new ad.
type CreateAd struct {
	ID          int64
	Title       string
	Body        string
	Location    string
	IPHash      string
	RepostCount int32
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// UpdateAd carries the editable fields; ownership is enforced by IPHash.
type UpdateAd struct {
	ID       int64
	IPHash   string
	Title    string
	Body     string
	Location string
}

// ExpiredAd is the slice of a swept ad needed to unwind its side effects.
type ExpiredAd struct {
	ID       int64
	Location string
}

// Location is one entry of the browse-by-location index.
type Location struct {
	Name    string
	AdCount int32
}

// PosterBehavior aggregates activity per anonymous identity.
type PosterBehavior struct {
	IPHash         string
	AdsPosted      int32
	UpVotesGiven   int32
	DownVotesGiven int32
	LastActivity   time.Time
}
