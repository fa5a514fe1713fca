package mock

import (
	"context"

	"github.com/dgallion1/ligjet/internal/relay"
)

var _ relay.Generator = (*Generator)(nil)

// Generator is a mock implementation of relay.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string) (string, error)
	ModelName  string
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.GenerateFn(ctx, prompt)
}

func (g *Generator) Model() string {
	if g.ModelName == "" {
		return "mock"
	}
	return g.ModelName
}
