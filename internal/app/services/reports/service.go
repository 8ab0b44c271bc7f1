// Package reports implements work report submission and listing.
package reports

import (
	"context"
	"strings"

	"github.com/beedatatech/teamflow/internal/app/domain/report"
	"github.com/beedatatech/teamflow/internal/app/services"
	"github.com/beedatatech/teamflow/internal/app/storage"
	"github.com/beedatatech/teamflow/pkg/logger"
)

// Service manages work reports.
type Service struct {
	store storage.ReportStore
	log   *logger.Logger
}

// New constructs a report service.
func New(store storage.ReportStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("reports")
	}
	return &Service{store: store, log: log}
}

// Submit stores a new report. Text and image are both mandatory.
func (s *Service) Submit(ctx context.Context, userID int64, text, image string) (report.Report, error) {
	if userID == 0 || strings.TrimSpace(text) == "" || image == "" {
		return report.Report{}, services.Invalidf("user, report text and report image are required")
	}

	created, err := s.store.CreateReport(ctx, report.Report{
		UserID: userID,
		Text:   text,
		Image:  image,
	})
	if err != nil {
		return report.Report{}, err
	}
	s.log.WithField("report_id", created.ID).WithField("user_id", userID).Info("report submitted")
	return created, nil
}

// ListAll returns every report with author names resolved, newest first.
func (s *Service) ListAll(ctx context.Context) ([]report.Report, error) {
	return s.store.ListReports(ctx)
}

// ListForUser returns one user's reports, newest first.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]report.Report, error) {
	return s.store.ListUserReports(ctx, userID)
}
