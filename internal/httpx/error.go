package httpx

import "fmt"

// HTTPError is a non-2xx response, with the raw body kept for diagnostics.
type HTTPError struct {
	Status int
	Body   []byte
	Path   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("httpx: %s returned status %d", e.Path, e.Status)
}

// Temporary reports whether the status suggests a retry could succeed.
func (e *HTTPError) Temporary() bool {
	return e.Status >= 500 || e.Status == 429
}
