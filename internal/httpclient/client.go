package httpclient

import (
	"crypto/tls"
	"net/http"
	"time"
)

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// NewInsecureHTTPClient creates an HTTP client that skips TLS certificate
// verification. Some corporate Jira instances sit behind proxies that
// re-sign traffic with certificates that fail standard validation; this
// client exists for those environments only. It must never be the default -
// callers opt in through the [jira] insecure_tls config flag.
func NewInsecureHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		},
	}
}
