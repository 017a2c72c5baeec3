package api

import "fmt"

// ErrorKind classifies transport failures.
type ErrorKind string

const (
	KindConnect     ErrorKind = "connect"
	KindTimeout     ErrorKind = "timeout"
	KindCertificate ErrorKind = "certificate"
	KindCanceled    ErrorKind = "canceled"
	KindProtocol    ErrorKind = "protocol"
)

// TransportError reports a failure to complete an HTTP exchange.
type TransportError struct {
	Kind ErrorKind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("wildfire: %s error: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
