package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SchedulePrune registers a job on c that drops idle sessions from store every
// interval. cron runs @every jobs at second resolution at best.
func SchedulePrune(c *cron.Cron, store *Store, interval time.Duration, logger *zap.Logger) (cron.EntryID, error) {
	if interval < time.Second {
		interval = time.Second
	}
	spec := fmt.Sprintf("@every %s", interval)

	id, err := c.AddFunc(spec, func() {
		removed := store.Prune(store.now())
		if removed > 0 {
			logger.Debug("idle sessions pruned",
				zap.Int("removed", removed),
				zap.Int("active", store.Len()),
			)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("schedule session prune %q: %w", spec, err)
	}
	logger.Info("session prune scheduled", zap.String("cronSpec", spec))
	return id, nil
}
