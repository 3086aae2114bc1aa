package classifier

import contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"

// Result is the outcome of one classification stage: either a resolved
// label or unresolved, in which case the next stage runs.
type Result struct {
	label    contractx.AgentLabel
	resolved bool
}

func Resolved(label contractx.AgentLabel) Result {
	return Result{label: label, resolved: true}
}

func Unresolved() Result {
	return Result{}
}

func (r Result) Label() (contractx.AgentLabel, bool) {
	return r.label, r.resolved
}

func (r Result) String() string {
	if !r.resolved {
		return "unresolved"
	}
	return string(r.label)
}
