package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEnum(t *testing.T) {
	assert.Equal(t, "USER", NormalizeEnum("  user "))
	assert.Equal(t, "MONTH", NormalizeEnum("Month"))
	assert.Equal(t, "", NormalizeEnum("   "))
}

func TestNormalizeEnums(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "upper-cases and trims",
			input:    []string{" super_admin ", "student"},
			expected: []string{"SUPER_ADMIN", "STUDENT"},
		},
		{
			name:     "dedupes case-insensitively preserving first occurrence",
			input:    []string{"organization_admin", "ORGANIZATION_ADMIN", "Organization_Admin"},
			expected: []string{"ORGANIZATION_ADMIN"},
		},
		{
			name:     "drops blanks",
			input:    []string{"", "  ", "SALES_ADMIN"},
			expected: []string{"SALES_ADMIN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEnums(tt.input))
		})
	}
}
