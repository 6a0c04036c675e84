package icpa

import (
	"context"
	"time"
)

// dispatch performs the single delivery attempt for a job and records the
// outcome. Exactly one of three outcomes occurs, and exactly one status
// write happens per invocation: sent, media read failure, or gateway
// failure. There is no retry; a job that lands in the error status stays
// there until an operator resubmits it as a new job.
func (a *application) dispatch(jobId string) {
	job, err := a.jobRepo.Get(jobId)
	if err != nil {
		// Nothing to mark when the row is gone.
		a.logger.
			WithField("jobId", jobId).
			WithError(err).
			Error("dispatch: failed to load job")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.sendTimeout)
	defer cancel()

	media, err := a.resolver.Resolve(ctx, job.MediaRef)
	if err != nil {
		a.recordOutcome(&job, "media read failure: "+err.Error())
		return
	}

	switch err := a.gateway.Send(ctx, &job, media).(type) {
	case nil:
		a.recordOutcome(&job, "")

	case *GatewayError:
		a.recordOutcome(&job, err.Error())

	default:
		// Transport level failure, no HTTP response. A timed out call
		// lands here as well.
		a.recordOutcome(&job, "connection failure: "+err.Error())
	}
}

func (a *application) recordOutcome(job *DeliveryJob, lastError string) {
	now := time.Now()

	status := StatusSent
	if lastError != "" {
		status = StatusError
	}

	if err := a.jobRepo.UpdateStatus(job.JobId, status, now, lastError); err != nil {
		a.logger.
			WithField("jobId", job.JobId).
			WithError(err).
			Error("dispatch: failed to record outcome")
		return
	}

	entry := a.logger.
		WithField("jobId", job.JobId).
		WithField("recipient", job.Recipient)

	if status == StatusError {
		entry.WithField("lastError", lastError).Error("delivery attempt failed")
		return
	}

	entry.Info("media delivered")
}
