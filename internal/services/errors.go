package services

import "fmt"

// ErrorKind separates connectivity failures from failed HTTP exchanges.
type ErrorKind int

const (
	ClientError ErrorKind = iota + 1
	ServerError
)

func (k ErrorKind) String() string {
	switch k {
	case ClientError:
		return "client"
	case ServerError:
		return "server"
	default:
		return "unknown"
	}
}

// NetworkError is the single error type returned by the data service for any
// transport failure. Views treat every NetworkError the same way.
type NetworkError struct {
	Kind       ErrorKind
	StatusCode int // server errors only
	Detail     string
}

func (e *NetworkError) Error() string {
	switch e.Kind {
	case ClientError:
		return "Client Error: " + e.Detail
	case ServerError:
		return fmt.Sprintf("Server Error Code: %d\nMessage: %s", e.StatusCode, e.Detail)
	default:
		return "An unknown error occurred"
	}
}
