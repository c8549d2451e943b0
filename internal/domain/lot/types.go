package lot

type Status string

const (
	StatusPreBid Status = "PRE_BID"
	StatusLive   Status = "LIVE"
	StatusPaused Status = "PAUSED"
	StatusSold   Status = "SOLD"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPreBid, StatusLive, StatusPaused, StatusSold:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the lot has been settled. SOLD and PAUSED
// are terminal; a closed lot never re-opens.
func (s Status) IsTerminal() bool {
	return s == StatusSold || s == StatusPaused
}

var validNext = map[Status]map[Status]bool{
	StatusPreBid: {StatusLive: true},
	StatusLive:   {StatusSold: true, StatusPaused: true},
	StatusPaused: {},
	StatusSold:   {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
