package security

import (
	"strings"
	"testing"

	"github.com/alchemorsel/flavorgraph/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Names  []string `json:"names" validate:"dive,ingredient"`
	Limit  int      `json:"limit" validate:"min=0,max=50"`
	Policy string   `json:"policy" validate:"omitempty,oneof=overwrite max reject"`
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	t.Run("ValidStruct_ShouldPass", func(t *testing.T) {
		err := v.Struct(sample{Names: []string{"garlic", ""}, Limit: 5})

		assert.NoError(t, err)
	})

	testCases := []struct {
		name    string
		input   sample
		field   string
		message string
	}{
		{"Markup", sample{Names: []string{"<b>garlic</b>"}}, "sample.names[0]", "Invalid ingredient name"},
		{"TooLong", sample{Names: []string{strings.Repeat("a", 101)}}, "sample.names[0]", "Invalid ingredient name"},
		{"LimitAboveMax", sample{Limit: 51}, "sample.limit", "limit must be at most 50"},
		{"NegativeLimit", sample{Limit: -1}, "sample.limit", "limit must be at least 0"},
		{"UnknownPolicy", sample{Policy: "merge"}, "sample.policy", "policy must be one of: overwrite max reject"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.input)

			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CodeValidationFailed))

			appErr := errors.Wrap(err, "")
			fields, ok := appErr.Metadata["validation_errors"].(errors.ValidationErrors)
			require.True(t, ok)
			require.Len(t, fields, 1)
			assert.Equal(t, tc.field, fields[0].Field)
			assert.Equal(t, tc.message, fields[0].Message)
		})
	}
}
