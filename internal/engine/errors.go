package engine

import "fmt"

// ContentQualityError means a job's description could not be obtained in
// usable form. The row is marked failed and is not retried within the cycle.
type ContentQualityError struct {
	UniqueID string
	Reason   string
}

func (e *ContentQualityError) Error() string {
	return fmt.Sprintf("job %s: %s", e.UniqueID, e.Reason)
}
