package icpa

import (
	"time"

	"github.com/pkg/errors"
)

// recoverPending re-arms a scheduler timer for every job that was still in
// the scheduled state when the previous process stopped. Jobs whose due
// time elapsed while the process was down are left in the scheduled state
// and logged; firing them hours late would surprise recipients more than a
// resubmission would, so that call belongs to an operator.
func (a *application) recoverPending() error {
	jobs, err := a.jobRepo.GetPending()
	if err != nil {
		return errors.Wrap(err, "failed to load pending jobs")
	}

	now := time.Now()

	for _, job := range jobs {
		if !job.DueAt.After(now) {
			a.logger.
				WithField("jobId", job.JobId).
				WithField("dueAt", job.DueAt).
				Warn("recovery: due time elapsed while offline, leaving job alone")
			continue
		}

		a.scheduler.Schedule(job.JobId, job.DueAt, a.dispatch)

		a.logger.
			WithField("jobId", job.JobId).
			WithField("dueAt", job.DueAt).
			Info("recovery: re-armed scheduled job")
	}

	return nil
}
