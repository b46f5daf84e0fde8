package ports

import "net/http"

// HTTPClient is the session every document submission goes through.
// *http.Client satisfies it; tests substitute round-trip stubs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
