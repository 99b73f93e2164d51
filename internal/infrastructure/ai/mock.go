// Package ai provides recipe generators
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/alchemorsel/flavorgraph/internal/ports/outbound"
)

// MockGenerator produces a canned recipe without calling a model. It echoes
// the prompt so callers can see what would have been sent.
type MockGenerator struct{}

var _ outbound.RecipeGenerator = MockGenerator{}

// Name returns "mock"
func (MockGenerator) Name() string {
	return "mock"
}

// Generate returns a placeholder recipe built from prompt
func (MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Chef's Sample Recipe\n\n")
	b.WriteString("This recipe was produced without a language model. Prompt:\n\n")
	for _, line := range strings.Split(strings.TrimSpace(prompt), "\n") {
		fmt.Fprintf(&b, "> %s\n", line)
	}
	return b.String(), nil
}
