package contribution

import "fmt"

// InvalidCeremonyError reports that a specific sub-ceremony failed to
// apply or validate. It is the only error kind the orchestrator itself
// originates; the backend cause is wrapped.
//
// When several items of one batch fail concurrently, only one
// InvalidCeremonyError surfaces, and parallel scheduling decides which.
// Callers must not assume the reported index is the lowest failing one,
// only that it is accurate for the item it names. The whole batch must be
// discarded either way.
type InvalidCeremonyError struct {
	Index int
	Err   error
}

func (e *InvalidCeremonyError) Error() string {
	return fmt.Sprintf("contribution %d: %v", e.Index, e.Err)
}

func (e *InvalidCeremonyError) Unwrap() error { return e.Err }

// firstError extracts one InvalidCeremonyError from a Parallelize result
// set, or nil if every item succeeded.
func firstError(results []interface{}) error {
	for _, r := range results {
		if err, ok := r.(*InvalidCeremonyError); ok {
			return err
		}
	}
	return nil
}
