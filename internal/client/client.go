// Package client holds the data-access helpers the console views call.
// They speak to the gateway's own /api routes and normalize replies into
// a UI-friendly shape; the session cookie travels in the HTTP client's
// jar and is never touched here.
package client

import (
	"net/http"
	"strings"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}
