package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// TokenSafetyMargin is subtracted from a token's lifetime before it is stored.
const TokenSafetyMargin = 300 * time.Second

// TokenFetcher performs one refresh-token exchange.
type TokenFetcher func(ctx context.Context) (*oauth2.Token, error)

// CachedToken is a bearer token and the instant it stops being handed out.
type CachedToken struct {
	AccessToken string
	Expiry      time.Time
}

// TokenCache keeps one short-lived access token in memory and refreshes it
// synchronously once it expires. Concurrent refreshes share one exchange.
type TokenCache struct {
	fetch  TokenFetcher
	now    func() time.Time
	margin time.Duration

	mu     sync.Mutex
	cached CachedToken
	group  singleflight.Group
}

// NewTokenCache returns an empty cache. A nil clock means time.Now.
func NewTokenCache(fetch TokenFetcher, now func() time.Time) *TokenCache {
	if now == nil {
		now = time.Now
	}
	return &TokenCache{fetch: fetch, now: now, margin: TokenSafetyMargin}
}

// AccessToken returns the cached token while now < expiry, otherwise it
// fetches and stores a fresh one.
func (c *TokenCache) AccessToken(ctx context.Context) (string, error) {
	if tok, ok := c.valid(); ok {
		return tok, nil
	}

	v, err, _ := c.group.Do("access_token", func() (any, error) {
		if tok, ok := c.valid(); ok {
			return tok, nil
		}
		now := c.now()
		t, err := c.fetch(ctx)
		if err != nil {
			return "", err
		}
		if t == nil || t.AccessToken == "" {
			return "", errors.New("token response missing access_token")
		}
		c.store(CachedToken{
			AccessToken: t.AccessToken,
			Expiry:      now.Add(tokenTTL(t) - c.margin),
		})
		return t.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Snapshot returns the currently cached token, which may be expired.
func (c *TokenCache) Snapshot() CachedToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cached
}

// Invalidate drops the cached token.
func (c *TokenCache) Invalidate() {
	c.store(CachedToken{})
}

func (c *TokenCache) valid() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached.AccessToken == "" || !c.now().Before(c.cached.Expiry) {
		return "", false
	}
	return c.cached.AccessToken, true
}

func (c *TokenCache) store(t CachedToken) {
	c.mu.Lock()
	c.cached = t
	c.mu.Unlock()
}

// tokenTTL prefers the raw expires_in of the response, since oauth2 computes
// Expiry against the wall clock rather than the cache's clock.
func tokenTTL(t *oauth2.Token) time.Duration {
	switch v := t.Extra("expires_in").(type) {
	case float64:
		return time.Duration(v) * time.Second
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return time.Duration(n) * time.Second
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	if !t.Expiry.IsZero() {
		return time.Until(t.Expiry)
	}
	return 0
}
