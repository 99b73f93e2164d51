// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SuggestionAssertions provides suggestion-list assertion methods
type SuggestionAssertions struct {
	t *testing.T
}

// NewSuggestionAssertions creates a new suggestion assertions helper
func NewSuggestionAssertions(t *testing.T) *SuggestionAssertions {
	return &SuggestionAssertions{t: t}
}

// SortedDescending asserts that scores never increase along the list
func (sa *SuggestionAssertions) SortedDescending(suggestions []ingredient.Suggestion, msgAndArgs ...interface{}) {
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(sa.t, suggestions[i-1].Score, suggestions[i].Score, msgAndArgs...)
	}
}

// AllAbove asserts that every score is strictly greater than threshold
func (sa *SuggestionAssertions) AllAbove(suggestions []ingredient.Suggestion, threshold float64, msgAndArgs ...interface{}) {
	for _, s := range suggestions {
		assert.Greater(sa.t, s.Score, threshold, msgAndArgs...)
	}
}

// Unique asserts that no ingredient appears twice
func (sa *SuggestionAssertions) Unique(suggestions []ingredient.Suggestion, msgAndArgs ...interface{}) {
	seen := make(map[string]bool, len(suggestions))
	for _, s := range suggestions {
		assert.False(sa.t, seen[s.Ingredient], "duplicate suggestion %q", s.Ingredient)
		seen[s.Ingredient] = true
	}
}

// Contains asserts that name is among the suggestions
func (sa *SuggestionAssertions) Contains(suggestions []ingredient.Suggestion, name string, msgAndArgs ...interface{}) {
	assert.Contains(sa.t, Names(suggestions), name, msgAndArgs...)
}

// Names returns the ingredient names of suggestions in order
func Names(suggestions []ingredient.Suggestion) []string {
	names := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		names = append(names, s.Ingredient)
	}
	return names
}

// HTTPAssertions provides HTTP-specific assertion methods
type HTTPAssertions struct {
	t *testing.T
}

// NewHTTPAssertions creates a new HTTP assertions helper
func NewHTTPAssertions(t *testing.T) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// StatusCode asserts the HTTP status code
func (ha *HTTPAssertions) StatusCode(resp *http.Response, expectedCode int, msgAndArgs ...interface{}) {
	require.NotNil(ha.t, resp, "Response should not be nil")
	assert.Equal(ha.t, expectedCode, resp.StatusCode, msgAndArgs...)
}

// JSONResponse asserts that the response is valid JSON and unmarshals it
func (ha *HTTPAssertions) JSONResponse(resp *http.Response, target interface{}, msgAndArgs ...interface{}) {
	require.NotNil(ha.t, resp, "Response should not be nil")

	contentType := resp.Header.Get("Content-Type")
	assert.True(ha.t, strings.Contains(contentType, "application/json"),
		"Response should have JSON content type, got: %s", contentType)

	decoder := json.NewDecoder(resp.Body)
	err := decoder.Decode(target)
	assert.NoError(ha.t, err, "Response should be valid JSON")
}

// ErrorResponse asserts that the response carries the expected error message
func (ha *HTTPAssertions) ErrorResponse(resp *http.Response, expectedMessage string, msgAndArgs ...interface{}) {
	require.NotNil(ha.t, resp, "Response should not be nil")

	var errorResp map[string]interface{}
	ha.JSONResponse(resp, &errorResp)

	assert.Equal(ha.t, false, errorResp["success"], "Error response should have success=false")
	if expectedMessage != "" {
		errorMsg, exists := errorResp["error"]
		assert.True(ha.t, exists, "Response should contain error field")
		assert.Equal(ha.t, expectedMessage, errorMsg, msgAndArgs...)
	}
}

// HasHeader asserts that a header exists
func (ha *HTTPAssertions) HasHeader(resp *http.Response, headerName string, msgAndArgs ...interface{}) {
	require.NotNil(ha.t, resp, "Response should not be nil")

	_, exists := resp.Header[http.CanonicalHeaderKey(headerName)]
	assert.True(ha.t, exists, "Response should have header %s", headerName)
}

// SecurityHeaders asserts that security headers are present
func (ha *HTTPAssertions) SecurityHeaders(resp *http.Response, msgAndArgs ...interface{}) {
	require.NotNil(ha.t, resp, "Response should not be nil")

	securityHeaders := []string{
		"X-Content-Type-Options",
		"X-Frame-Options",
		"Referrer-Policy",
	}

	for _, header := range securityHeaders {
		ha.HasHeader(resp, header, "Security header %s should be present", header)
	}
}
