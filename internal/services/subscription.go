package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/justsurfingit/placement-portal/internal/events"
	"github.com/justsurfingit/placement-portal/internal/models"
)

// Subscription delivers full, sorted job snapshots on C: one immediately and
// at least one more after every job mutation matching its scope. Release must
// be called when the consumer goes away; it is safe to call more than once
// and C is closed once the delivery goroutine has stopped.
type Subscription struct {
	C <-chan []models.Job

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *Subscription) Release() {
	s.once.Do(s.cancel)
	<-s.done
}

// SubscribeAllJobs watches every job.
func (s *JobService) SubscribeAllJobs(ctx context.Context) *Subscription {
	return s.subscribe(ctx, "all", nil, s.GetAllJobs)
}

// SubscribeAdminJobs watches the jobs posted by adminID.
func (s *JobService) SubscribeAdminJobs(ctx context.Context, adminID string) *Subscription {
	filter := func(e events.Event) bool { return e.PostedBy == adminID }
	load := func(ctx context.Context) ([]models.Job, error) { return s.GetJobsByAdmin(ctx, adminID) }
	return s.subscribe(ctx, "admin:"+adminID, filter, load)
}

func (s *JobService) subscribe(parent context.Context, scope string, filter events.Filter, load func(context.Context) ([]models.Job, error)) *Subscription {
	ctx, cancel := context.WithCancel(parent)
	out := make(chan []models.Job, 1)
	sub := &Subscription{C: out, cancel: cancel, done: make(chan struct{})}

	ch := s.hub.SubscribeFunc(func(e events.Event) bool {
		return e.IsJobChange() && (filter == nil || filter(e))
	})

	go func() {
		defer close(sub.done)
		defer close(out)
		defer s.hub.Unsubscribe(ch)

		deliver := func() bool {
			jobs, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return false
				}
				// Reported once per failure; the next change retries naturally.
				slog.Error("job subscription snapshot failed", "scope", scope, "err", err)
				return true
			}
			select {
			case out <- jobs:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !deliver() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				// Coalesce a burst into one snapshot.
				drain(ch)
				if !deliver() {
					return
				}
			}
		}
	}()
	return sub
}

func drain(ch <-chan events.Event) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
