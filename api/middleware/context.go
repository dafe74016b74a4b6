package middleware

import (
	"context"

	"github.com/checklane/register-backend/internal/register"
)

type contextKey string

const ctxWorkflow contextKey = "register_workflow"

// WorkflowFromContext returns the session workflow resolved by the session
// middleware, nil when the request is unauthenticated.
func WorkflowFromContext(ctx context.Context) *register.Workflow {
	if ctx == nil {
		return nil
	}
	if w, ok := ctx.Value(ctxWorkflow).(*register.Workflow); ok {
		return w
	}
	return nil
}

// WithWorkflow injects the session workflow into the context.
func WithWorkflow(ctx context.Context, w *register.Workflow) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxWorkflow, w)
}
