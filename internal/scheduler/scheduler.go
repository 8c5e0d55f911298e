package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/teelane/budget-manager/internal/metrics"
	"github.com/teelane/budget-manager/internal/repo"
)

// Run starts the background orphan sweep: at each tick of cronExpr it removes
// expenses whose owner has been deleted. Returns the cron runner so callers
// can Stop it on shutdown.
func Run(expenseRepo *repo.ExpenseRepo, cronExpr string) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(cronExpr, func() {
		n, err := expenseRepo.DeleteOrphaned(context.Background())
		if err != nil {
			log.Printf("scheduler: orphan sweep: %v", err)
			return
		}
		if n > 0 {
			metrics.AddOrphansSwept(n)
			log.Printf("scheduler: orphan sweep removed %d expense(s)", n)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
