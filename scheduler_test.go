package icpa

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerFiresImmediatelyWhenDue(t *testing.T) {
	scheduler := NewScheduler()
	defer scheduler.Shutdown()

	fired := make(chan string, 1)

	scheduler.Schedule("job-1", time.Now(), func(jobId string) {
		fired <- jobId
	})

	select {
	case jobId := <-fired:
		assert.Equal(t, "job-1", jobId)
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestSchedulerFiresAtDueTime(t *testing.T) {
	scheduler := NewScheduler()
	defer scheduler.Shutdown()

	fired := make(chan time.Time, 1)
	start := time.Now()

	scheduler.Schedule("job-1", start.Add(100*time.Millisecond), func(string) {
		fired <- time.Now()
	})

	select {
	case at := <-fired:
		assert.True(t, at.Sub(start) >= 80*time.Millisecond, "fired too early")
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}
}

func TestSchedulerScheduleIsIdempotentWhileArmed(t *testing.T) {
	scheduler := NewScheduler()
	defer scheduler.Shutdown()

	var fires int32
	callback := func(string) {
		atomic.AddInt32(&fires, 1)
	}

	dueAt := time.Now().Add(50 * time.Millisecond)

	scheduler.Schedule("job-1", dueAt, callback)
	scheduler.Schedule("job-1", dueAt, callback)
	scheduler.Schedule("job-1", time.Now(), callback)

	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(1), atomic.LoadInt32(&fires))
}

func TestSchedulerReArmAfterFire(t *testing.T) {
	scheduler := NewScheduler()
	defer scheduler.Shutdown()

	fired := make(chan struct{}, 2)
	callback := func(string) {
		fired <- struct{}{}
	}

	scheduler.Schedule("job-1", time.Now(), callback)
	<-fired

	// Once the timer has fired the id is free again.
	scheduler.Schedule("job-1", time.Now(), callback)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("re-armed callback never fired")
	}
}

func TestSchedulerCancel(t *testing.T) {
	scheduler := NewScheduler()
	defer scheduler.Shutdown()

	var fires int32

	scheduler.Schedule("job-1", time.Now().Add(50*time.Millisecond), func(string) {
		atomic.AddInt32(&fires, 1)
	})
	scheduler.Cancel("job-1")

	// Cancelling an unknown id is a no-op.
	scheduler.Cancel("job-2")

	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, int32(0), atomic.LoadInt32(&fires))
}

func TestSchedulerShutdownDisarmsTimers(t *testing.T) {
	scheduler := NewScheduler()

	var fires int32
	callback := func(string) {
		atomic.AddInt32(&fires, 1)
	}

	scheduler.Schedule("job-1", time.Now().Add(50*time.Millisecond), callback)
	scheduler.Shutdown()

	scheduler.Schedule("job-2", time.Now(), callback)

	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, int32(0), atomic.LoadInt32(&fires))
}
