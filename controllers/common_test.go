package controllers

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingCacheKey(t *testing.T) {
	a := url.Values{"page": {"2"}, "limit": {"12"}}
	b := url.Values{"limit": {"12"}, "page": {"2"}}
	c := url.Values{"page": {"3"}, "limit": {"12"}}

	// Key is order-independent but value-sensitive.
	assert.Equal(t, listingCacheKey(a), listingCacheKey(b))
	assert.NotEqual(t, listingCacheKey(a), listingCacheKey(c))
	assert.Contains(t, listingCacheKey(a), "property:")
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("2026-09-01T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = parseDate("01/09/2026")
	assert.Error(t, err)
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest("GET", "/properties?page=3&limit=24", nil)
	page, limit := parsePagination(req)
	assert.Equal(t, int64(3), page)
	assert.Equal(t, int64(24), limit)

	// Defaults on absence, junk, or abusive values.
	req = httptest.NewRequest("GET", "/properties", nil)
	page, limit = parsePagination(req)
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(12), limit)

	req = httptest.NewRequest("GET", "/properties?page=-1&limit=5000", nil)
	page, limit = parsePagination(req)
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(12), limit)
}

func TestParsePeriodDays(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/admin/analytics?period=7", nil)
	assert.Equal(t, 7, parsePeriodDays(req))

	req = httptest.NewRequest("GET", "/api/admin/analytics", nil)
	assert.Equal(t, 30, parsePeriodDays(req))

	req = httptest.NewRequest("GET", "/api/admin/analytics?period=0", nil)
	assert.Equal(t, 30, parsePeriodDays(req))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/properties/abc/view", nil)
	req.RemoteAddr = "10.1.2.3:52011"
	assert.Equal(t, "10.1.2.3", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
