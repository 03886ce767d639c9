package ports

import "net/http"

// HTTPClient is the part of *http.Client the gateway adapters use.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
