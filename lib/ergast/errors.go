package ergast

import (
	"errors"
	"fmt"
)

// a standings query whose StandingsLists came back empty, e.g. when
// querying a round that hasn't happened yet.
var ErrEmptyStandings = errors.New("no standings available for this selection")

// non-200 status on a selector-scoped accessor.
type InvalidRequestError struct {
	URL    string
	Status int
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request to ergast (%s): status %d", e.URL, e.Status)
}

// a 200 response whose body could not be decoded as JSON.
type MalformedResponseError struct {
	URL string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to parse ergast response (%s): %s", e.URL, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

type UnrecognizedSessionError struct {
	Session string
}

func (e *UnrecognizedSessionError) Error() string {
	return fmt.Sprintf("unrecognized session type %q", e.Session)
}
