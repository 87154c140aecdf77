package entity

// Sort orders the ad listing.
type Sort int

const (
	// SortRecent orders by creation time, newest first.
	SortRecent Sort = iota
	// SortPopular orders by net vote score.
	SortPopular
	// SortControversial orders by how evenly split the votes are.
	SortControversial
)

// ParseSort maps the wire value to a Sort, defaulting to recent.
func ParseSort(raw string) Sort {
	switch raw {
	case "popular":
		return SortPopular
	case "controversial":
		return SortControversial
	default:
		return SortRecent
	}
}

// AdListFilter narrows and orders the ad listing.
type AdListFilter struct {
	Search   string
	Location string
	Sort     Sort
	Limit    int32
	Offset   int32
}
