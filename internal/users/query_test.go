package users

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListQueryDefaults(t *testing.T) {
	lq, err := parseListQuery(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 10, lq.limit)
	assert.Equal(t, 1, lq.page)
	assert.Empty(t, lq.role)
	assert.Empty(t, lq.sort)
}

func TestParseListQueryFiltersAndSort(t *testing.T) {
	lq, err := parseListQuery(url.Values{
		"limit":      {"5"},
		"page":       {"3"},
		"role":       {"premium"},
		"provider":   {"Github"},
		"first_name": {"Dana"},
		"sort":       {"desc"},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, lq.limit)
	assert.Equal(t, 3, lq.page)
	assert.Equal(t, "premium", lq.role)
	assert.Equal(t, "Github", lq.provider)
	assert.Equal(t, "Dana", lq.firstName)
	assert.Equal(t, "desc", lq.sort)
}

func TestParseListQueryRejectsBadPagination(t *testing.T) {
	for _, values := range []url.Values{
		{"limit": {"zero"}},
		{"limit": {"0"}},
		{"page": {"-1"}},
		{"page": {"abc"}},
	} {
		_, err := parseListQuery(values)
		assert.Error(t, err, "values %v", values)
	}
}

func TestParseListQueryIgnoresUnknownSort(t *testing.T) {
	// Anything but asc/desc never reaches the ORDER BY clause.
	lq, err := parseListQuery(url.Values{"sort": {"price; DROP TABLE"}})
	require.NoError(t, err)
	assert.Empty(t, lq.sort)
}
