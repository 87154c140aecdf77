package inbound

import (
	"strconv"
	"time"
)

type AdCreateRequest struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	Location     string `json:"location"`
	ContactEmail string `json:"contact_email"`
}

type AdCreateResponse struct {
	ID          int64  `json:"id,string"`
	RelayEmail  string `json:"relay_email,omitempty"`
	RepostCount int32  `json:"repost_count"`
}

type AdUpdateRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Location string `json:"location"`
}

type AdResponse struct {
	ID          int64  `json:"id,string"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Location    string `json:"location"`
	RelayEmail  string `json:"relay_email,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	RepostCount int32  `json:"repost_count"`
	UpVotes     int32  `json:"up_votes"`
	DownVotes   int32  `json:"down_votes"`
	CreatedAt   string `json:"created_at"`
	PostedAgo   string `json:"posted_ago"`
	ExpiresAt   string `json:"expires_at"`
}

type PosterResponse struct {
	AdsPosted      int32 `json:"ads_posted"`
	UpVotesGiven   int32 `json:"up_votes_given"`
	DownVotesGiven int32 `json:"down_votes_given"`
}

type AdDetailResponse struct {
	AdResponse
	Poster PosterResponse `json:"poster"`
}

type LocationResponse struct {
	Name    string `json:"name"`
	AdCount int32  `json:"ad_count"`
}

type AdListResponse struct {
	Ads       []AdResponse       `json:"ads"`
	Locations []LocationResponse `json:"locations"`
	Page      int32              `json:"page"`
	HasMore   bool               `json:"has_more"`
}

type VoteCastRequest struct {
	Type string `json:"type"`
}

type CleanupResponse struct {
	Expired int64 `json:"expired"`
}

// relativeTime renders a coarse "posted N <unit> ago" label.
func relativeTime(from, now time.Time) string {
	d := now.Sub(from)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	default:
		return plural(int(d.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return strconv.Itoa(n) + " " + unit + "s ago"
}
