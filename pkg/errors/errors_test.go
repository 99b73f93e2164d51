package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func (suite *ErrorsTestSuite) TestStatusCode() {
	tests := []struct {
		name     string
		err      *AppError
		expected int
	}{
		{"BadRequest", NewBadRequestError("bad"), http.StatusBadRequest},
		{"Validation", NewValidationError("limit"), http.StatusBadRequest},
		{"InvalidIngredient", NewInvalidIngredientError("miso", fmt.Errorf("weight out of range")), http.StatusBadRequest},
		{"NotFound", NewNotFoundError("Route"), http.StatusNotFound},
		{"MethodNotAllowed", NewAppError(CodeMethodNotAllowed, "Method not allowed", ""), http.StatusMethodNotAllowed},
		{"EdgeConflict", NewEdgeConflictError("miso", fmt.Errorf("edge exists")), http.StatusConflict},
		{"TooManyRequests", NewTooManyRequestsError(), http.StatusTooManyRequests},
		{"ExternalService", NewExternalServiceError("openai", fmt.Errorf("timeout")), http.StatusServiceUnavailable},
		{"Database", NewDatabaseError("save extension", fmt.Errorf("locked")), http.StatusInternalServerError},
		{"InvalidSeed", NewInvalidSeedError("seed.yaml", fmt.Errorf("bad yaml")), http.StatusInternalServerError},
		{"Internal", NewInternalError(""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			assert.Equal(suite.T(), tt.expected, tt.err.StatusCode())
		})
	}
}

func (suite *ErrorsTestSuite) TestMessages() {
	suite.Run("Details_ShouldAppearInError", func() {
		err := NewValidationError("limit must be at most 50")

		assert.Equal(suite.T(), "VALIDATION_FAILED: Validation failed (limit must be at most 50)", err.Error())
	})

	suite.Run("EmptyResource_ShouldUseGenericMessage", func() {
		assert.Equal(suite.T(), "Resource not found", NewNotFoundError("").Message)
	})

	suite.Run("EmptyInternalMessage_ShouldUseDefault", func() {
		assert.Equal(suite.T(), "An unexpected error occurred", NewInternalError("").Message)
	})

	suite.Run("StackTrace_ShouldBeCaptured", func() {
		err := NewBadRequestError("bad")

		assert.NotEmpty(suite.T(), err.StackTrace)
		assert.NotContains(suite.T(), err.StackTrace, "pkg/errors/errors.go")
	})
}

func (suite *ErrorsTestSuite) TestWrapAndIs() {
	suite.Run("PlainError_ShouldBecomeInternal", func() {
		// Arrange
		cause := fmt.Errorf("disk full")

		// Act
		wrapped := Wrap(cause, "Failed to save")

		// Assert
		require.NotNil(suite.T(), wrapped)
		assert.Equal(suite.T(), CodeInternal, wrapped.Code)
		assert.Equal(suite.T(), "Failed to save", wrapped.Message)
		assert.True(suite.T(), stderrors.Is(wrapped, cause))
	})

	suite.Run("AppError_ShouldPassThrough", func() {
		original := NewEdgeConflictError("miso", fmt.Errorf("edge exists"))

		wrapped := Wrap(fmt.Errorf("adding: %w", original), "ignored")

		assert.Same(suite.T(), original, wrapped)
		assert.True(suite.T(), Is(wrapped, CodeEdgeConflict))
	})

	suite.Run("Nil_ShouldStayNil", func() {
		assert.Nil(suite.T(), Wrap(nil, "unused"))
	})

	suite.Run("ForeignError_ShouldNotMatchCode", func() {
		assert.False(suite.T(), Is(fmt.Errorf("plain"), CodeInternal))
	})
}

func (suite *ErrorsTestSuite) TestValidationErrors() {
	suite.Run("Multiple_ShouldJoinMessages", func() {
		err := NewValidationErrors([]ValidationError{
			{Field: "Ingredients", Tag: "min", Message: "ingredients must not be empty"},
			{Field: "Limit", Tag: "max", Message: "limit must be at most 50"},
		})

		assert.Equal(suite.T(), "ingredients must not be empty; limit must be at most 50", err.Details)
		assert.Len(suite.T(), err.Metadata["validation_errors"], 2)
	})

	suite.Run("Empty_ShouldUseGenericMessage", func() {
		assert.Equal(suite.T(), "validation failed", ValidationErrors(nil).Error())
	})
}

func (suite *ErrorsTestSuite) TestToErrorResponse() {
	err := NewExternalServiceError("openai", fmt.Errorf("timeout"))

	resp := ToErrorResponse(err, "req-1")

	assert.False(suite.T(), resp.Success)
	assert.Equal(suite.T(), "External service error", resp.Error)
	assert.Equal(suite.T(), CodeExternalServiceError, resp.Code)
	assert.Equal(suite.T(), "Failed to communicate with openai", resp.Details)
	assert.Equal(suite.T(), "openai", resp.Metadata["service"])
	assert.Equal(suite.T(), "req-1", resp.RequestID)
}

func TestErrorsTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}
