package datasync

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

// Schedule adds the periodic profile and role sync to c.
func Schedule(c *cron.Cron, spec string, s *Service) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		s.log.Println("Running job: data core sync...")
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.SyncPersonal(ctx, "")
		s.SyncRoles(ctx)
	})
}
