package icpa

import (
	"context"
	"fmt"
)

// GatewayTransport hands a media payload to the external messaging endpoint
// that transmits it to the recipient. Implementations make exactly one
// attempt per call; retrying is not their business.
type GatewayTransport interface {
	Send(ctx context.Context, job *DeliveryJob, media []byte) error
}

// GatewayError is returned by transports when the gateway answered the
// request but refused it. Its text is recorded verbatim on the job.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}
