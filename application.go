package icpa

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const UserAgent = "ICPA/MediaSchedule-1.0"

// DefaultSendTimeout bounds the single gateway call made per job.
const DefaultSendTimeout = 30 * time.Second

type Application interface {
	HttpHandler() *HttpHandler

	// Submit persists a delivery job and hands it to the scheduler. A nil
	// dueAt means send as soon as possible; a dueAt that is not strictly
	// in the future is rejected with InvalidDueTimeErr.
	Submit(recipient, mediaRef, thumbRef string, kind MediaKind, caption string, dueAt *time.Time) (string, error)

	Get(jobId string) (DeliveryJob, error)
	List() ([]DeliveryJob, error)

	Shutdown(ctx context.Context)
}

type AppOption func(a *application)

func SetLogger(logger logrus.FieldLogger) AppOption {
	return func(a *application) {
		a.logger = logger
	}
}

func SetJobRepo(repo JobRepository) AppOption {
	return func(a *application) {
		a.jobRepo = repo
	}
}

func SetMediaResolver(resolver MediaResolver) AppOption {
	return func(a *application) {
		a.resolver = resolver
	}
}

func SetMediaStore(store MediaStore) AppOption {
	return func(a *application) {
		a.mediaStore = store
	}
}

func SetGatewayTransport(transport GatewayTransport) AppOption {
	return func(a *application) {
		a.gateway = transport
	}
}

func SetScheduler(scheduler *Scheduler) AppOption {
	return func(a *application) {
		a.scheduler = scheduler
	}
}

func SetSendTimeout(timeout time.Duration) AppOption {
	return func(a *application) {
		a.sendTimeout = timeout
	}
}

type application struct {
	logger logrus.FieldLogger

	scheduler *Scheduler

	jobRepo    JobRepository
	resolver   MediaResolver
	mediaStore MediaStore
	gateway    GatewayTransport

	sendTimeout time.Duration
}

// NewApplication wires the delivery engine together and runs recovery
// before returning, so every job that was still scheduled when the previous
// process stopped has its timer re-armed before any new request is taken.
func NewApplication(options ...AppOption) (Application, error) {
	app := &application{
		logger:      logrus.New(),
		scheduler:   NewScheduler(),
		sendTimeout: DefaultSendTimeout,
	}

	for _, option := range options {
		option(app)
	}

	if err := app.ensureUsableConfiguration(); err != nil {
		return app, err
	}

	if err := app.recoverPending(); err != nil {
		return app, err
	}

	return app, nil
}

func (a *application) HttpHandler() *HttpHandler {
	return &HttpHandler{
		app: a,
	}
}

func (a *application) Submit(recipient, mediaRef, thumbRef string, kind MediaKind, caption string, dueAt *time.Time) (string, error) {
	if recipient == "" {
		return "", MissingRecipientErr
	}

	if !kind.Valid() {
		return "", errors.WithMessagef(UnknownMediaKindErr, "%q", kind)
	}

	if err := a.resolver.Check(context.Background(), mediaRef); err != nil {
		return "", errors.WithMessage(MediaUnavailableErr, err.Error())
	}

	now := time.Now()

	job := &DeliveryJob{
		JobId:        uuid.New().String(),
		Recipient:    recipient,
		MediaRef:     mediaRef,
		ThumbnailRef: thumbRef,
		MediaKind:    kind,
		Caption:      caption,
		DueAt:        now,
		Status:       StatusQueued,
		CreatedAt:    now,
	}

	if dueAt != nil {
		if !dueAt.After(now) {
			return "", InvalidDueTimeErr
		}

		job.DueAt = *dueAt
		job.Status = StatusScheduled
	}

	if err := a.jobRepo.Create(job); err != nil {
		return "", err
	}

	a.scheduler.Schedule(job.JobId, job.DueAt, a.dispatch)

	a.logger.
		WithField("jobId", job.JobId).
		WithField("dueAt", job.DueAt).
		WithField("status", job.Status).
		Info("delivery job accepted")

	return job.JobId, nil
}

func (a *application) Get(jobId string) (DeliveryJob, error) {
	return a.jobRepo.Get(jobId)
}

func (a *application) List() ([]DeliveryJob, error) {
	return a.jobRepo.GetAll()
}

// Shutdown blocks until the context is done, then disarms every timer.
func (a *application) Shutdown(ctx context.Context) {
	<-ctx.Done()
	a.scheduler.Shutdown()
}

func (a *application) ensureUsableConfiguration() error {
	if a.jobRepo == nil {
		return errors.New("Missing job repository")
	}

	if a.resolver == nil {
		return errors.New("Missing media resolver")
	}

	if a.gateway == nil {
		return errors.New("Missing gateway transport")
	}

	return nil
}
