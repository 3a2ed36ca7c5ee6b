package storage

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper removes staged uploads older than MaxAge on a cron schedule.
type Sweeper struct {
	Store  BlobStore
	Prefix string
	MaxAge time.Duration
	Log    *zap.Logger

	now  func() time.Time
	cron *cron.Cron
}

func NewSweeper(store BlobStore, maxAge time.Duration, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{Store: store, Prefix: UploadPrefix, MaxAge: maxAge, Log: log, now: time.Now}
}

// Sweep deletes expired blobs once and reports how many went.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	objs, err := s.Store.List(ctx, s.Prefix)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-s.MaxAge)
	removed := 0
	for _, o := range objs {
		if !o.ModTime.Before(cutoff) {
			continue
		}
		if err := s.Store.Delete(ctx, o.Key); err != nil {
			s.Log.Warn("sweep delete failed", zap.String("key", o.Key), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// Start schedules Sweep with a standard five-field cron spec.
func (s *Sweeper) Start(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := s.Sweep(ctx)
		if err != nil {
			s.Log.Error("upload sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			s.Log.Info("upload sweep", zap.Int("removed", n))
		}
	})
	if err != nil {
		return err
	}
	s.cron = c
	c.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
