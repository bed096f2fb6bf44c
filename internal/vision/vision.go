// internal/vision/vision.go

// Package vision is the narrow contract to the external vision-language
// model. The pipeline stages depend on Caller only; the HTTP client below is
// the production implementation.
package vision

import "context"

// Caller sends one prompt plus one image to the model and returns the raw
// response text, expected to be a JSON object. Implementations must honor ctx
// cancellation; a timeout is reported as an error like any transport failure.
type Caller interface {
	Call(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// CallerFunc adapts a function to the Caller interface.
type CallerFunc func(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)

func (f CallerFunc) Call(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	return f(ctx, prompt, image, mimeType)
}
