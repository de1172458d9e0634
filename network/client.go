// Package network provides the shared HTTP client used for subtitle blobs and skip-time lookups.
package network

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"github.com/zantaku/Zantaku-sub000/constant"
	"github.com/zantaku/Zantaku-sub000/key"
)

// Client is the client shared across the application.
// Call Setup after the config is loaded to apply network options.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// Setup switches Client to the browser-fingerprinted transport when network.tls_fingerprint is set.
func Setup() {
	if viper.GetBool(key.NetworkTLSFingerprint) {
		Client = &http.Client{
			Timeout:   time.Minute,
			Transport: NewFingerprintTransport(),
		}
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// Get issues a GET with the default user agent. headers override the defaults.
func Get(ctx context.Context, client *http.Client, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if client == nil {
		client = Client
	}

	return client.Do(req)
}
