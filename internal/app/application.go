// Package app wires the TeamFlow services together.
package app

import (
	"time"

	chatsvc "github.com/beedatatech/teamflow/internal/app/services/chat"
	"github.com/beedatatech/teamflow/internal/app/services/issues"
	"github.com/beedatatech/teamflow/internal/app/services/mailer"
	projectsvc "github.com/beedatatech/teamflow/internal/app/services/projects"
	reportsvc "github.com/beedatatech/teamflow/internal/app/services/reports"
	teamsvc "github.com/beedatatech/teamflow/internal/app/services/teams"
	"github.com/beedatatech/teamflow/internal/app/services/users"
	"github.com/beedatatech/teamflow/internal/app/storage"
	"github.com/beedatatech/teamflow/internal/app/storage/memory"
	"github.com/beedatatech/teamflow/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Issues   storage.IssueStore
	Users    storage.UserStore
	Projects storage.ProjectStore
	Teams    storage.TeamStore
	Chat     storage.ChatStore
	Reports  storage.ReportStore
}

// Options carries the non-store dependencies of the application.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	Mailer    mailer.Sender
}

// Application ties the domain services together.
type Application struct {
	log *logger.Logger

	Issues   *issues.Service
	Users    *users.Service
	Projects *projectsvc.Service
	Teams    *teamsvc.Service
	Chat     *chatsvc.Service
	Reports  *reportsvc.Service
	Mailer   mailer.Sender
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, opts Options, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Issues == nil {
		stores.Issues = mem
	}
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Projects == nil {
		stores.Projects = mem
	}
	if stores.Teams == nil {
		stores.Teams = mem
	}
	if stores.Chat == nil {
		stores.Chat = mem
	}
	if stores.Reports == nil {
		stores.Reports = mem
	}

	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 5 * time.Hour
	}

	return &Application{
		log:      log,
		Issues:   issues.New(stores.Issues, log.Named("issues")),
		Users:    users.New(stores.Users, opts.JWTSecret, opts.TokenTTL, log.Named("users")),
		Projects: projectsvc.New(stores.Projects, log.Named("projects")),
		Teams:    teamsvc.New(stores.Teams, log.Named("teams")),
		Chat:     chatsvc.New(stores.Chat, log.Named("chat")),
		Reports:  reportsvc.New(stores.Reports, log.Named("reports")),
		Mailer:   opts.Mailer,
	}
}
