package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Middleware - сигнатура мидлвари huma.
type Middleware = func(ctx huma.Context, next func(huma.Context))

// Chain - общие мидлвари агента, к которым группа операций может
// добавить свои.
type Chain struct {
	base huma.Middlewares
}

func NewChain(base ...Middleware) *Chain {
	return &Chain{base: base}
}

// For возвращает новый список: сначала общие мидлвари, затем extra.
// Общий список не меняется.
func (c *Chain) For(extra ...Middleware) huma.Middlewares {
	result := make(huma.Middlewares, 0, len(c.base)+len(extra))
	result = append(result, c.base...)
	result = append(result, extra...)
	return result
}
