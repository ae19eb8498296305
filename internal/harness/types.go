package harness

// Step is one item in a merge trace.
type Step struct {
	Seq    int    `json:"seq"`
	Stream int    `json:"stream"`
	Item   string `json:"item"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if expectations and all assertions hold.
	Pass bool `json:"pass"`

	// Trace contains every merged item in order.
	Trace []Step `json:"trace"`

	// Consumed is the number of items read from each stream.
	Consumed []int `json:"consumed"`

	// Code is the error code the merge stopped with, or "" on success.
	Code string `json:"code,omitempty"`

	// Err is the error the merge stopped with, if any.
	Err error `json:"-"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []Step{},
		Consumed: []int{},
		Errors:   []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Pass = false
	r.Errors = append(r.Errors, msg)
}

// Items returns the merged items in order.
func (r *Result) Items() []string {
	items := make([]string, len(r.Trace))
	for i, s := range r.Trace {
		items[i] = s.Item
	}
	return items
}
