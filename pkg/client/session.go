package client

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

// Cloudflare trust-token cookie names.
const (
	ClearanceCookie     = "cf_clearance"
	BotManagementCookie = "__cf_bm"
)

// NewSession returns an http.Client whose cookie jar is seeded with the
// given trust tokens for base's host. Empty tokens are not set.
// The client carries no overall timeout; each attempt sets its own.
func NewSession(base *url.URL, clearance, botManagement string) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	var cookies []*http.Cookie
	if clearance != "" {
		cookies = append(cookies, &http.Cookie{Name: ClearanceCookie, Value: clearance, Path: "/"})
	}
	if botManagement != "" {
		cookies = append(cookies, &http.Cookie{Name: BotManagementCookie, Value: botManagement, Path: "/"})
	}
	if len(cookies) > 0 {
		jar.SetCookies(base, cookies)
	}

	return &http.Client{Jar: jar}, nil
}
