package icpa

import "context"

// MediaResolver loads the payload bytes behind a media reference. The bytes
// are read once, at dispatch time; resolvers must not cache, so that a file
// changing or disappearing between scheduling and firing is reported as a
// delivery failure rather than served stale.
type MediaResolver interface {
	// Check verifies that the reference currently resolves to readable
	// bytes without loading them. Used for synchronous validation when a
	// job is submitted.
	Check(ctx context.Context, ref string) error

	Resolve(ctx context.Context, ref string) ([]byte, error)
}

// MediaStore persists uploaded payload bytes and returns the reference the
// job row should carry.
type MediaStore interface {
	Save(data []byte, ext string) (string, error)
}
