// Package projects implements project CRUD and membership views.
package projects

import (
	"context"
	"strings"

	"github.com/beedatatech/teamflow/internal/app/domain/project"
	"github.com/beedatatech/teamflow/internal/app/domain/user"
	"github.com/beedatatech/teamflow/internal/app/services"
	"github.com/beedatatech/teamflow/internal/app/storage"
	"github.com/beedatatech/teamflow/pkg/logger"
)

// Service manages projects.
type Service struct {
	store storage.ProjectStore
	log   *logger.Logger
}

// New constructs a project service.
func New(store storage.ProjectStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("projects")
	}
	return &Service{store: store, log: log}
}

// Create registers a new project.
func (s *Service) Create(ctx context.Context, p project.Project) (project.Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Key = strings.TrimSpace(p.Key)

	if p.Name == "" {
		return project.Project{}, services.Invalidf("name is required")
	}
	if p.Key == "" {
		return project.Project{}, services.Invalidf("project key is required")
	}

	created, err := s.store.CreateProject(ctx, p)
	if err != nil {
		return project.Project{}, err
	}
	s.log.WithField("project_id", created.ID).WithField("key", created.Key).Info("project created")
	return created, nil
}

// Get returns one project with its lead's display name resolved.
func (s *Service) Get(ctx context.Context, id int64) (project.Project, error) {
	return s.store.GetProject(ctx, id)
}

// List returns all projects, newest first.
func (s *Service) List(ctx context.Context) ([]project.Project, error) {
	return s.store.ListProjects(ctx)
}

// ListForUser returns the projects the user is assigned issues in.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]project.Project, error) {
	return s.store.ListUserProjects(ctx, userID)
}

// Members returns the distinct users assigned to issues of the project.
func (s *Service) Members(ctx context.Context, projectID int64) ([]user.Member, error) {
	return s.store.ListProjectMembers(ctx, projectID)
}
