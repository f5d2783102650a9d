package repos

import "fmt"

// MissingRepositoryError is returned for a service with neither a
// name/url pair nor a ref.
type MissingRepositoryError struct {
	Service string
}

func (e *MissingRepositoryError) Error() string {
	return fmt.Sprintf("service %q: repo must set either name and url, or ref", e.Service)
}

// UnresolvedReferenceError is returned when a ref names no central
// repository.
type UnresolvedReferenceError struct {
	Service string
	Ref     string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("service %q: repository reference %q not found in helm-repositories", e.Service, e.Ref)
}
