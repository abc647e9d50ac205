package main

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensionQueryParam(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    *int
		wantOK  bool
		wantNil bool
	}{
		{name: "absent means no constraint", url: "/?other=1", wantOK: true, wantNil: true},
		{name: "blank means no constraint", url: "/?site=", wantOK: true, wantNil: true},
		{name: "ALL sentinel means no constraint", url: "/?site=ALL", wantOK: true, wantNil: true},
		{name: "sentinel ignores case", url: "/?site=all", wantOK: true, wantNil: true},
		{name: "numeric value", url: "/?site=4", wantOK: true},
		{name: "non-numeric rejected", url: "/?site=abc", wantOK: false, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)

			got, ok := dimensionQueryParam(r, "site")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, 4, *got)
		})
	}
}

func TestOptionalIntQueryParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/?groupStart=10", nil)

	got, ok := optionalIntQueryParams(r, "groupStart")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, 10, *got)

	got, ok = optionalIntQueryParams(r, "groupEnd")
	assert.True(t, ok)
	assert.Nil(t, got)

	r = httptest.NewRequest("GET", "/?groupStart=ten", nil)
	_, ok = optionalIntQueryParams(r, "groupStart")
	assert.False(t, ok)
}

func TestOptionalStringQueryParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/?status=revision&empty=", nil)

	got := optionalStringQueryParams(r, "status")
	require.NotNil(t, got)
	assert.Equal(t, "revision", *got)

	assert.Nil(t, optionalStringQueryParams(r, "empty"))
	assert.Nil(t, optionalStringQueryParams(r, "missing"))
}
