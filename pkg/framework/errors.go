package framework

import "strings"

// ErrorList collects the exit errors of concurrently stopped runners.
type ErrorList []error

// Add appends err when it is non-nil and reports whether it was kept.
func (l *ErrorList) Add(err error) bool {
	if err == nil {
		return false
	}
	*l = append(*l, err)
	return true
}

// Err returns nil for an empty list, the sole entry for a single-error
// list, and the list itself otherwise.
func (l ErrorList) Err() error {
	switch len(l) {
	case 0:
		return nil
	case 1:
		return l[0]
	}
	return l
}

// Error implements error.
func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
