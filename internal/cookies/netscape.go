// Package cookies reads Netscape cookies.txt files into cookie jars.
package cookies

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const httpOnlyPrefix = "#HttpOnly_"

// ParseNetscape parses the Netscape cookies.txt format.
// Each line holds: domain, include-subdomains flag, path, secure, expiry, name, value.
func ParseNetscape(r io.Reader) ([]*http.Cookie, error) {
	var out []*http.Cookie
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			line = strings.TrimPrefix(line, httpOnlyPrefix)
			httpOnly = true
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 7 {
			continue
		}

		c := &http.Cookie{
			Domain:   parts[0],
			Path:     parts[2],
			Secure:   strings.EqualFold(parts[3], "TRUE"),
			Name:     parts[5],
			Value:    parts[6],
			HttpOnly: httpOnly,
		}
		// 0 marks a session cookie.
		if expires, err := strconv.ParseInt(parts[4], 10, 64); err == nil && expires > 0 {
			c.Expires = time.Unix(expires, 0)
		}
		out = append(out, c)
	}

	return out, scanner.Err()
}

// NewJar builds a cookie jar holding the given cookies, grouped by domain.
func NewJar(list []*http.Cookie) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	byDomain := make(map[string][]*http.Cookie)
	for _, c := range list {
		byDomain[c.Domain] = append(byDomain[c.Domain], c)
	}
	for domain, cs := range byDomain {
		scheme := "http"
		for _, c := range cs {
			if c.Secure {
				scheme = "https"
				break
			}
		}
		u := &url.URL{Scheme: scheme, Host: strings.TrimPrefix(domain, "."), Path: "/"}
		jar.SetCookies(u, cs)
	}
	return jar, nil
}

// LoadJar parses r and returns the cookies and a jar holding them.
func LoadJar(r io.Reader) ([]*http.Cookie, http.CookieJar, error) {
	list, err := ParseNetscape(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse cookies: %w", err)
	}
	jar, err := NewJar(list)
	if err != nil {
		return nil, nil, err
	}
	return list, jar, nil
}
