package page

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Fetcher retrieves watch-page HTML over HTTP. Outbound requests resolve the
// target host first and refuse private address space, so a crafted URL cannot
// be used to probe the local network.
type Fetcher struct {
	httpClient  *http.Client
	maxBodySize int64
	timeout     time.Duration
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: ssrfDialContext,
			},
		},
		maxBodySize: 10 * 1024 * 1024,
		timeout:     30 * time.Second,
	}
}

// NewInsecureFetcher skips the private-IP guard. Test servers live on
// loopback, so test code needs it.
func NewInsecureFetcher() *Fetcher {
	return &Fetcher{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxBodySize: 10 * 1024 * 1024,
		timeout:     30 * time.Second,
	}
}

// FetchedPage is one retrieved document.
type FetchedPage struct {
	URL         string
	StatusCode  int
	ContentType string
	HTML        string
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchedPage, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", parsedURL.Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchedPage{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		HTML:        string(body),
	}, nil
}

func ssrfDialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}

	for _, ip := range ips {
		if isPrivateIP(ip.IP) {
			return nil, fmt.Errorf("SSRF protection: cannot connect to private IP %s", ip.IP)
		}
	}

	d := net.Dialer{}
	return d.DialContext(ctx, network, addr)
}

func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return true
	}
	return false
}
