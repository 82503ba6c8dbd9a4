package audit

import (
	"context"
	"log/slog"

	"github.com/Asonyu-Ng/career-profile-pal/internal/domain/cv"
	"github.com/Asonyu-Ng/career-profile-pal/internal/domain/user"
	"github.com/Asonyu-Ng/career-profile-pal/internal/observability"
)

type RecordSource interface {
	All(ctx context.Context) []cv.CV
}

type Registry interface {
	Users(ctx context.Context) []user.User
}

// Report is the outcome of one integrity sweep. The auditor only observes;
// whatever repair policy is layered on top works from this.
type Report struct {
	Users     int
	Records   int
	OrphanIDs []string
	PerUser   map[string]int
}

type Auditor struct {
	records  RecordSource
	registry Registry
	log      *slog.Logger
	metrics  *observability.Metrics
}

func New(records RecordSource, registry Registry, log *slog.Logger, metrics *observability.Metrics) *Auditor {
	return &Auditor{
		records:  records,
		registry: registry,
		log:      log,
		metrics:  metrics,
	}
}

// Sweep cross-checks the full CV table against the user registry. Records
// whose owner is not in the registry are reported as orphans. Nothing is
// mutated, deleted or repaired here.
func (a *Auditor) Sweep(ctx context.Context) Report {
	users := a.registry.Users(ctx)

	known := make(map[string]bool, len(users))
	perUser := make(map[string]int, len(users))

	for _, u := range users {
		known[u.ID] = true
		perUser[u.ID] = 0
	}

	records := a.records.All(ctx)

	orphans := []string{}

	for _, record := range records {
		if !known[record.UserID] {
			orphans = append(orphans, record.ID)
			continue
		}

		perUser[record.UserID]++
	}

	report := Report{
		Users:     len(users),
		Records:   len(records),
		OrphanIDs: orphans,
		PerUser:   perUser,
	}

	a.metrics.AuditUsers.Set(float64(report.Users))
	a.metrics.AuditRecords.Set(float64(report.Records))
	a.metrics.AuditOrphans.Set(float64(len(report.OrphanIDs)))

	if len(report.OrphanIDs) > 0 {
		a.log.Warn("integrity sweep found orphaned cvs",
			"users", report.Users,
			"records", report.Records,
			"orphans", len(report.OrphanIDs),
			"orphanIds", report.OrphanIDs,
		)
	} else {
		a.log.Info("integrity sweep clean",
			"users", report.Users,
			"records", report.Records,
		)
	}

	return report
}
