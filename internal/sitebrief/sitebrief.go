// Package sitebrief extracts a short text summary of a business website.
package sitebrief

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultMaxText = 1500
	defaultMaxBody = 2 << 20
)

// ErrBlockedAddress is returned when a website resolves to a loopback,
// private or link-local address.
var ErrBlockedAddress = errors.New("website address is not publicly routable")

// sharedAddressSpace is the carrier-grade NAT range (RFC 6598).
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// Brief is the cleaned-up content of a web page.
type Brief struct {
	URL         string
	Title       string
	Description string
	Text        string
}

// String formats the brief for inclusion in a prompt.
func (b Brief) String() string {
	var parts []string
	if b.Title != "" {
		parts = append(parts, "Title: "+b.Title)
	}
	if b.Description != "" {
		parts = append(parts, "Description: "+b.Description)
	}
	if b.Text != "" {
		parts = append(parts, "Content: "+b.Text)
	}
	return strings.Join(parts, "\n")
}

// Fetcher downloads pages and cleans them. Only public addresses are
// dialed, including after redirects.
type Fetcher struct {
	client       *http.Client
	maxText      int
	maxBody      int64
	allowPrivate bool
}

func NewFetcher() *Fetcher {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: dialGuard,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &Fetcher{
		client:  &http.Client{Timeout: 15 * time.Second, Transport: transport},
		maxText: defaultMaxText,
		maxBody: defaultMaxBody,
	}
}

// Fetch downloads rawURL and extracts its title, meta description and visible
// text. A URL without scheme is fetched over https.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Brief, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return Brief{}, err
	}
	if !f.allowPrivate {
		if err := checkHost(target); err != nil {
			return Brief{}, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Brief{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Brief{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Brief{}, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return Brief{}, err
	}

	doc.Find("script, style, nav, footer, iframe, noscript, svg, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	description, _ := doc.Find(`meta[name="description"]`).Attr("content")
	if description == "" {
		description, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
	}

	return Brief{
		URL:         target,
		Title:       collapseSpace(doc.Find("title").First().Text()),
		Description: collapseSpace(description),
		Text:        truncate(collapseSpace(doc.Find("body").Text()), f.maxText),
	}, nil
}

func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty website URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid website URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid website URL %q", raw)
	}
	return u.String(), nil
}

// checkHost rejects URLs whose host is localhost or a literal non-public IP,
// before any DNS lookup happens.
func checkHost(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid website URL: %w", err)
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	if ip, err := netip.ParseAddr(host); err == nil && !isPublicAddr(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

// dialGuard runs after DNS resolution, so address is always ip:port.
func dialGuard(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if !isPublicAddr(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ip)
	}
	return nil
}

func isPublicAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	switch {
	case !ip.IsValid(),
		ip.IsUnspecified(),
		ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsLinkLocalUnicast(),
		ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(),
		ip.IsMulticast(),
		sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
