package pipeline

import "fmt"

// ConnectionLostUID is the UID of the result published when the reader
// link fails and the worker stops.
const ConnectionLostUID = "connection lost"

// Result is the outcome of one card scan, handed from the worker to the
// consumer. Exactly one Result is published per card event.
type Result struct {
	UID    string
	Owner  string
	Status string // human-readable outcome
	Err    error  // nil when the photo and log row were both stored
}

// ConnectionLost reports whether r is the final result of a worker whose
// reader link failed.
func (r Result) ConnectionLost() bool {
	return r.UID == ConnectionLostUID
}

func saved(uid, owner, photo string) Result {
	return Result{UID: uid, Owner: owner, Status: "Photo saved: " + photo}
}

func failed(uid, owner string, err error) Result {
	return Result{UID: uid, Owner: owner, Status: fmt.Sprintf("Error: %v", err), Err: err}
}

func connectionLost(err error) Result {
	return Result{
		UID:    ConnectionLostUID,
		Owner:  "-",
		Status: fmt.Sprintf("Serial port error: %v", err),
		Err:    err,
	}
}
