package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlug(t *testing.T) {
	tests := map[string]string{
		"Demo":                  "demo",
		"  My Site: Staging!! ": "my-site-staging",
		"über":                  "ber",
		"***":                   "project",
		"":                      "project",
	}

	for name, prefix := range tests {
		slug, err := NewSlug(name)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile("^"+regexp.QuoteMeta(prefix)+`-\d{5}-\d{4}$`), slug, name)
	}
}

func TestSlugPrefix_Truncates(t *testing.T) {
	long := "a-very-long-project-name-that-keeps-going-and-going"
	assert.LessOrEqual(t, len(slugPrefix(long)), 40)
}

func TestIsSlug(t *testing.T) {
	slug, err := NewSlug("My Site: Staging")
	require.NoError(t, err)
	assert.True(t, IsSlug(slug))
	assert.True(t, IsSlug("demo-12345-6789"))
	assert.True(t, IsSlug("project-10000-1000"))

	for _, s := range []string{"p1", "3f1c2f4e-8a4b-4c1d-9e2f-0123456789ab", "demo", "demo-1234-6789", "Demo-12345-6789", "-12345-6789", "demo--12345-6789"} {
		assert.False(t, IsSlug(s), s)
	}
}
