package entity

// VoteType is the polarity of a cast vote.
type VoteType int

const (
	VoteTypeUnknown VoteType = iota
	VoteTypeUp
	VoteTypeDown
)

// String returns the string representation of the vote type.
func (v VoteType) String() string {
	switch v {
	case VoteTypeUp:
		return "up"
	case VoteTypeDown:
		return "down"
	default:
		return "unknown"
	}
}

// ParseVoteType maps the wire value to a VoteType.
func ParseVoteType(raw string) VoteType {
	switch raw {
	case "up":
		return VoteTypeUp
	case "down":
		return VoteTypeDown
	default:
		return VoteTypeUnknown
	}
}

// Vote is one (ad, identity) vote; at most one exists per pair.
type Vote struct {
	AdID   int64
	IPHash string
	Type   VoteType
}
