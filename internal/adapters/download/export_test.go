package download

import "net/http"

// NewDownloaderWithClient creates a Downloader using client.
func NewDownloaderWithClient(client *http.Client) *Downloader {
	return &Downloader{httpClient: client}
}
