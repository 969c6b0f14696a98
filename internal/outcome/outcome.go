// Package outcome classifies per-key results of batch operations and folds
// them into one aggregate status.
package outcome

// Status is the aggregate result of a batch or multi-key read.
type Status int

const (
	// StatusComplete means every key succeeded (or the batch was empty).
	StatusComplete Status = iota
	// StatusPartial means some keys succeeded and some failed.
	StatusPartial
	// StatusFailed means every key failed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fold classifies ok successes against failed failures.
func Fold(ok, failed int) Status {
	switch {
	case failed == 0:
		return StatusComplete
	case ok == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// Reason is a short machine-readable failure cause.
type Reason string

const (
	ReasonUnknownProject Reason = "unknown_project"
	ReasonMalformed      Reason = "malformed_entity"
)

// Outcome is the result for one key: either a success carrying the new
// hash(es), or a failure carrying a Reason.
type Outcome struct {
	Key    string
	Hash   string            // project hash, set by project merges
	Issues map[string]string // issue id -> hash, set by issue merges
	Reason Reason            // empty on success
	Detail string
}

// OK reports whether the key succeeded.
func (o Outcome) OK() bool { return o.Reason == "" }

// ProjectSuccess is a successful project merge.
func ProjectSuccess(key, hash string) Outcome {
	return Outcome{Key: key, Hash: hash}
}

// IssuesSuccess is a successful issue merge under project key.
func IssuesSuccess(key string, hashes map[string]string) Outcome {
	return Outcome{Key: key, Issues: hashes}
}

// Failed is a failed key. detail is for humans and logs.
func Failed(key string, reason Reason, detail string) Outcome {
	return Outcome{Key: key, Reason: reason, Detail: detail}
}

// Report collects outcomes in the order they are added.
type Report struct {
	Outcomes []Outcome
}

// Add appends o.
func (r *Report) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Status folds every outcome into the aggregate status.
func (r *Report) Status() Status {
	ok, failed := 0, 0
	for _, o := range r.Outcomes {
		if o.OK() {
			ok++
		} else {
			failed++
		}
	}
	return Fold(ok, failed)
}

// Succeeded returns the successful outcomes.
func (r *Report) Succeeded() []Outcome {
	return r.filter(true)
}

// Failures returns the failed outcomes.
func (r *Report) Failures() []Outcome {
	return r.filter(false)
}

func (r *Report) filter(ok bool) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.OK() == ok {
			out = append(out, o)
		}
	}
	return out
}
