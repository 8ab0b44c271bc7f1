// Package teams implements team creation and listing.
package teams

import (
	"context"
	"strings"

	"github.com/beedatatech/teamflow/internal/app/domain/team"
	"github.com/beedatatech/teamflow/internal/app/services"
	"github.com/beedatatech/teamflow/internal/app/storage"
	"github.com/beedatatech/teamflow/pkg/logger"
)

// Service manages teams.
type Service struct {
	store storage.TeamStore
	log   *logger.Logger
}

// New constructs a team service.
func New(store storage.TeamStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("teams")
	}
	return &Service{store: store, log: log}
}

// Create registers a new team. The creator is also recorded as the last
// updater.
func (s *Service) Create(ctx context.Context, t team.Team) (team.Team, error) {
	t.Name = strings.TrimSpace(t.Name)

	if t.Name == "" {
		return team.Team{}, services.Invalidf("team name is required")
	}
	if t.ProjectID == 0 {
		return team.Team{}, services.Invalidf("project id is required")
	}
	if len(t.Members) == 0 {
		return team.Team{}, services.Invalidf("team members are required")
	}
	if t.CreatedBy == 0 {
		return team.Team{}, services.Invalidf("creator is required")
	}
	t.UpdatedBy = t.CreatedBy

	created, err := s.store.CreateTeam(ctx, t)
	if err != nil {
		return team.Team{}, err
	}
	s.log.WithField("team_id", created.ID).WithField("project_id", created.ProjectID).Info("team created")
	return created, nil
}

// List returns all teams.
func (s *Service) List(ctx context.Context) ([]team.Team, error) {
	return s.store.ListTeams(ctx)
}
