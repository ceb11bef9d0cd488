// Package scheduler wires up the cron job that periodically expires approved
// jobs whose listing window has closed.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Expirer is the part of the admin service the sweep needs.
type Expirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

// ExpirySweeper wraps robfig/cron and runs the expiry sweep.
type ExpirySweeper struct {
	cron    *cron.Cron
	expirer Expirer
	spec    string // cron spec, e.g. "@hourly"
}

func NewExpirySweeper(expirer Expirer, spec string) *ExpirySweeper {
	return &ExpirySweeper{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		expirer: expirer,
		spec:    spec,
	}
}

// Start registers the sweep and starts the scheduler. One sweep also runs
// immediately so jobs that expired while the process was down are caught.
func (s *ExpirySweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.Sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s", s.spec)

	go s.Sweep(ctx)

	return nil
}

// Stop shuts the scheduler down and waits for a running sweep to finish.
func (s *ExpirySweeper) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

// Sweep runs a single expiry pass.
func (s *ExpirySweeper) Sweep(ctx context.Context) {
	n, err := s.expirer.ExpireOverdue(ctx)
	if err != nil {
		log.Printf("[scheduler] ExpireOverdue error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[scheduler] Expired %d job(s)", n)
	}
}
