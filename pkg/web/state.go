package web

// State is the lifecycle position of a page or module.
type State int

const (
	StateConstructed State = iota
	StateBeforeInit
	StateFieldsBinding
	StateFieldsBound
	StateSetup
	StateVerifying
	StateVerified
	StateFailed
)

var stateNames = [...]string{
	StateConstructed:   "constructed",
	StateBeforeInit:    "before-init",
	StateFieldsBinding: "fields-binding",
	StateFieldsBound:   "fields-bound",
	StateSetup:         "setup",
	StateVerifying:     "verifying",
	StateVerified:      "verified",
	StateFailed:        "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateVerified || s == StateFailed
}
