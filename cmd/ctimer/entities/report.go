package entities

// Exit type discriminators, a closed set. Exactly one applies to a
// terminated child and the classification is never revised.
const (
	ExitTypeReturn  = "return"
	ExitTypeSignal  = "signal"
	ExitTypeQuit    = "quit"
	ExitTypeTimeout = "timeout"
	ExitTypeUnknown = "unknown"
)

// Report is the wire form of one supervision: which process ran, how it
// terminated and what it consumed.
type Report struct {
	Pid      int      `json:"pid"`
	MaxRssKb int64    `json:"maxrss_kb"`
	Exit     ExitInfo `json:"exit"`
	TimesMs  Times    `json:"times_ms"`
}

// ExitInfo carries the outcome classification. Repr is nil (JSON null)
// when the outcome has no meaningful numeric representation: a launch
// failure or an unclassifiable status.
type ExitInfo struct {
	Type string `json:"type"`
	Repr *int64 `json:"repr"`
	Desc string `json:"desc"`
}

// Times are processor times in milliseconds. Total is always User + Sys,
// for the timeout outcome the same as for every other one.
type Times struct {
	Total float64 `json:"total"`
	User  float64 `json:"user"`
	Sys   float64 `json:"sys"`
}
