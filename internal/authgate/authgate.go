// Package authgate defines the authentication boundary crossed before any
// signing operation. The wallet core never performs biometric or device
// authentication itself; callers supply a Gate wired to the platform's
// mechanism, and flows ask it before touching key material.
package authgate

import "context"

// Result is the outcome of an authentication prompt.
type Result int

const (
	// Success means the user passed the challenge; signing may proceed.
	Success Result = iota
	// Canceled means the user dismissed the prompt. Flows treat this as a
	// clean abort, not an error.
	Canceled
	// Failed means the challenge could not be completed.
	Failed
)

// Gate authorizes access to signing keys. Authorize blocks until the
// platform prompt resolves or ctx is done.
type Gate interface {
	Authorize(ctx context.Context, reason string) (Result, error)
}

// Passthrough approves every request. It is the default for headless use
// (CLI, tests) where no platform authenticator exists.
type Passthrough struct{}

func (Passthrough) Authorize(ctx context.Context, reason string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Failed, err
	}
	return Success, nil
}
