package provisioning

import "fmt"

// ServiceError reports a lifecycle hook that could not complete. Err keeps
// the cause for errors.Is and errors.As.
type ServiceError struct {
	Op      string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Message == "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
