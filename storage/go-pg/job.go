package gopg

import (
	"time"

	"github.com/go-pg/pg"

	icpa "github.com/Davibfr13/ICPA"
)

func NewJobRepository(db *pg.DB) icpa.JobRepository {
	return &jobRepository{
		db: db,
	}
}

type jobWrapper struct {
	TableName struct{} `sql:"delivery_jobs, alias:dj" json:"-"`

	*icpa.DeliveryJob
}

type jobRepository struct {
	db *pg.DB
}

func (repo *jobRepository) Create(job *icpa.DeliveryJob) error {
	if err := repo.db.Insert(&jobWrapper{DeliveryJob: job}); err != nil {
		if pgErr, ok := err.(pg.Error); ok && pgErr.IntegrityViolation() {
			return icpa.DuplicateJobErr
		}

		return err
	}

	return nil
}

func (repo *jobRepository) Get(jobId string) (icpa.DeliveryJob, error) {
	wrapped := &jobWrapper{
		DeliveryJob: &icpa.DeliveryJob{},
	}

	if err := repo.db.Model(wrapped).Where("job_id = ?", jobId).Select(); err != nil {
		if err == pg.ErrNoRows {
			return *wrapped.DeliveryJob, icpa.JobNotFoundErr
		}

		return *wrapped.DeliveryJob, err
	}

	return *wrapped.DeliveryJob, nil
}

func (repo *jobRepository) UpdateStatus(jobId string, status icpa.JobStatus, attemptedAt time.Time, lastError string) error {
	wrapped := &jobWrapper{
		DeliveryJob: &icpa.DeliveryJob{},
	}

	_, err := repo.db.Model(wrapped).
		Set("status = ?", status).
		Set("last_attempt_at = ?", attemptedAt).
		Set("last_error = ?", nullable(lastError)).
		Where("job_id = ?", jobId).
		Update()

	return err
}

func (repo *jobRepository) GetPending() ([]icpa.DeliveryJob, error) {
	var jobs []icpa.DeliveryJob
	var wrappedJobs []jobWrapper

	if err := repo.db.Model(&wrappedJobs).Where("status = ?", icpa.StatusScheduled).Select(); err != nil {
		if err == pg.ErrNoRows {
			return jobs, nil
		}

		return jobs, err
	}

	for _, j := range wrappedJobs {
		jobs = append(jobs, *j.DeliveryJob)
	}

	return jobs, nil
}

func (repo *jobRepository) GetAll() ([]icpa.DeliveryJob, error) {
	var jobs []icpa.DeliveryJob
	var wrappedJobs []jobWrapper

	if err := repo.db.Model(&wrappedJobs).Order("due_at DESC").Select(); err != nil {
		if err == pg.ErrNoRows {
			return jobs, nil
		}

		return jobs, err
	}

	for _, j := range wrappedJobs {
		jobs = append(jobs, *j.DeliveryJob)
	}

	return jobs, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}

	return s
}
