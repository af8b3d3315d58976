package weather

import (
	"errors"
	"fmt"
)

// Error kinds a single point's fetch can fail with. Providers wrap one of
// these so the pipeline can classify the failure with errors.Is.
var (
	ErrTransport = errors.New("transport error")
	ErrProvider  = errors.New("provider error")
	ErrContract  = errors.New("contract error")
)

// ErrorKind is the user-facing label of a point failure.
type ErrorKind string

const (
	KindTransport ErrorKind = "TransportError"
	KindProvider  ErrorKind = "ProviderError"
	KindContract  ErrorKind = "ContractError"
)

// FetchError describes why one point produced no record.
type FetchError struct {
	PointID string
	Kind    ErrorKind
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.PointID, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Warning is the non-fatal notice surfaced for a dropped point.
type Warning struct {
	PointID string    `json:"pointId" yaml:"pointId"`
	Kind    ErrorKind `json:"kind" yaml:"kind"`
	Message string    `json:"message" yaml:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (%s)", w.PointID, w.Message, w.Kind)
}

// ClassifyError maps a provider error onto one of the three kinds. Anything
// that is not explicitly a provider or contract failure, including context
// deadlines, is treated as transport.
func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrContract):
		return KindContract
	case errors.Is(err, ErrProvider):
		return KindProvider
	default:
		return KindTransport
	}
}

func newFetchError(p GeoPoint, err error) *FetchError {
	return &FetchError{PointID: p.ID, Kind: ClassifyError(err), Err: err}
}

func (e *FetchError) warning() Warning {
	return Warning{PointID: e.PointID, Kind: e.Kind, Message: e.Err.Error()}
}
