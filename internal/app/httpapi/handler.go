// Package httpapi exposes the TeamFlow REST API.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	app "github.com/beedatatech/teamflow/internal/app"
	"github.com/beedatatech/teamflow/internal/app/domain/issue"
	"github.com/beedatatech/teamflow/internal/app/domain/project"
	"github.com/beedatatech/teamflow/internal/app/domain/team"
	"github.com/beedatatech/teamflow/internal/app/metrics"
	"github.com/beedatatech/teamflow/internal/app/services"
	"github.com/beedatatech/teamflow/internal/app/services/mailer"
	"github.com/beedatatech/teamflow/internal/app/services/users"
	"github.com/beedatatech/teamflow/pkg/logger"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app     *app.Application
	uploads *UploadStore
	hub     *Hub
	log     *logger.Logger
}

// NewHandler returns a router exposing the REST API, upload serving and the
// chat WebSocket endpoint.
func NewHandler(application *app.Application, uploads *UploadStore, hub *Hub, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{app: application, uploads: uploads, hub: hub, log: log}

	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	// Issues.
	api.HandleFunc("/issues", h.listIssues).Methods(http.MethodGet)
	api.HandleFunc("/issues", h.createIssue).Methods(http.MethodPost)
	api.HandleFunc("/issues/{issueId:[0-9]+}", h.getIssue).Methods(http.MethodGet)
	api.HandleFunc("/issues/{issueId:[0-9]+}", h.updateIssue).Methods(http.MethodPut)
	api.HandleFunc("/issues/{issueId:[0-9]+}", h.deleteIssue).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{projectId:[0-9]+}/issues", h.listProjectIssues).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId:[0-9]+}/issues/overview", h.listProjectIssuesDetailed).Methods(http.MethodGet)
	api.HandleFunc("/issue-status/{userId:[0-9]+}", h.latestIssueStatus).Methods(http.MethodGet)

	// Auth and users.
	api.HandleFunc("/signup", h.signup).Methods(http.MethodPost)
	api.HandleFunc("/login", h.login).Methods(http.MethodPost)
	api.HandleFunc("/get-users", h.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/user/{userId:[0-9]+}", h.getUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{userId:[0-9]+}", h.updateUserProfile).Methods(http.MethodPatch)
	api.HandleFunc("/users/{userId:[0-9]+}/role", h.updateUserRole).Methods(http.MethodPatch)

	// Projects.
	api.HandleFunc("/projects", h.listProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", h.createProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{projectId:[0-9]+}", h.getProject).Methods(http.MethodGet)
	api.HandleFunc("/project-name/{projectId:[0-9]+}", h.getProjectName).Methods(http.MethodGet)
	api.HandleFunc("/user/{userId:[0-9]+}/projects", h.listUserProjects).Methods(http.MethodGet)

	// Teams.
	api.HandleFunc("/teams", h.createTeam).Methods(http.MethodPost)
	api.HandleFunc("/teams", h.listTeams).Methods(http.MethodGet)

	// Chat.
	api.HandleFunc("/projects/{projectId:[0-9]+}/chat", h.listChat).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId:[0-9]+}/chat/ws", h.chatSocket).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId:[0-9]+}/chat/{userId:[0-9]+}", h.postChat).Methods(http.MethodPost)
	api.HandleFunc("/chat/{messageId:[0-9]+}", h.deleteChat).Methods(http.MethodDelete)

	// Reports.
	api.HandleFunc("/upload-report", h.uploadReport).Methods(http.MethodPost)
	api.HandleFunc("/reports", h.listReports).Methods(http.MethodGet)
	api.HandleFunc("/reports/{userId:[0-9]+}", h.listUserReports).Methods(http.MethodGet)

	// Mail.
	api.HandleFunc("/send-mail", h.sendMail).Methods(http.MethodPost)

	// Static upload serving and ops endpoints live outside /api.
	r.PathPrefix("/uploads/").Handler(h.uploads.Handler("/uploads/"))
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	return r
}

func pathID(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, errors.New("missing path parameter " + name)
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- issues ---

// issuePayload is the JSON shape accepted on create and update. Every field
// is a pointer so updates can distinguish absent from zero.
type issuePayload struct {
	Project         *int64  `json:"project"`
	IssueType       *string `json:"issueType"`
	Status          *string `json:"status"`
	Summary         *string `json:"summary"`
	Description     *string `json:"description"`
	Priority        *string `json:"priority"`
	Team            *string `json:"team"`
	Labels          *string `json:"labels"`
	Sprint          *string `json:"sprint"`
	LinkedIssueType *string `json:"linkedIssueType"`
	LinkedIssue     *int64  `json:"linkedIssue"`
	Assignee        *string `json:"assignee"`
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// issuePatchFromRequest reads the issue fields from either a JSON body or a
// multipart form, plus the stored attachment name when a file was uploaded.
func (h *handler) issuePatchFromRequest(w http.ResponseWriter, r *http.Request) (issue.Patch, error) {
	var patch issue.Patch

	if !isMultipart(r) {
		var payload issuePayload
		if err := decodeJSON(r.Body, &payload); err != nil {
			return patch, services.Invalidf("invalid request body")
		}
		patch = issue.Patch{
			Project:         payload.Project,
			IssueType:       payload.IssueType,
			Status:          payload.Status,
			Summary:         payload.Summary,
			Description:     payload.Description,
			Priority:        payload.Priority,
			Team:            payload.Team,
			Labels:          payload.Labels,
			Sprint:          payload.Sprint,
			LinkedIssueType: payload.LinkedIssueType,
			LinkedIssue:     payload.LinkedIssue,
			Assignee:        payload.Assignee,
		}
		return patch, nil
	}

	if err := h.uploads.parseMultipart(w, r); err != nil {
		return patch, services.Invalidf("invalid multipart form")
	}

	formString := func(field string) *string {
		if values, ok := r.MultipartForm.Value[field]; ok && len(values) > 0 {
			v := values[0]
			return &v
		}
		return nil
	}
	formInt := func(field string) (*int64, error) {
		raw := formString(field)
		if raw == nil || strings.TrimSpace(*raw) == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(*raw), 10, 64)
		if err != nil {
			return nil, services.Invalidf("%s must be numeric", field)
		}
		return &n, nil
	}

	var err error
	if patch.Project, err = formInt("project"); err != nil {
		return patch, err
	}
	if patch.LinkedIssue, err = formInt("linkedIssue"); err != nil {
		return patch, err
	}
	patch.IssueType = formString("issueType")
	patch.Status = formString("status")
	patch.Summary = formString("summary")
	patch.Description = formString("description")
	patch.Priority = formString("priority")
	patch.Team = formString("team")
	patch.Labels = formString("labels")
	patch.Sprint = formString("sprint")
	patch.LinkedIssueType = formString("linkedIssueType")
	patch.Assignee = formString("assignee")

	name, err := h.uploads.saveFormFile(r, "attachment")
	if err != nil {
		h.log.WithError(err).Warn("attachment upload failed")
		return patch, services.Invalidf("attachment upload failed")
	}
	if name != "" {
		patch.Attachment = &name
	}
	return patch, nil
}

func (h *handler) createIssue(w http.ResponseWriter, r *http.Request) {
	patch, err := h.issuePatchFromRequest(w, r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	is := issue.Issue{}
	if patch.Project != nil {
		is.Project = *patch.Project
	}
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&is.IssueType, patch.IssueType)
	setString(&is.Status, patch.Status)
	setString(&is.Summary, patch.Summary)
	setString(&is.Description, patch.Description)
	setString(&is.Priority, patch.Priority)
	setString(&is.Team, patch.Team)
	setString(&is.Labels, patch.Labels)
	setString(&is.Sprint, patch.Sprint)
	setString(&is.LinkedIssueType, patch.LinkedIssueType)
	setString(&is.Assignee, patch.Assignee)
	setString(&is.Attachment, patch.Attachment)
	is.LinkedIssue = patch.LinkedIssue

	created, err := h.app.Issues.Create(r.Context(), is)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Legacy creation response: 200 with no success flag.
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Issue created successfully",
		"id":      created.ID,
	})
}

func (h *handler) getIssue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "issueId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid issue id")
		return
	}
	is, err := h.app.Issues.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": is})
}

func (h *handler) listIssues(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Issues.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": list})
}

func (h *handler) updateIssue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "issueId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid issue id")
		return
	}
	patch, err := h.issuePatchFromRequest(w, r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	updated, err := h.app.Issues.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": updated})
}

func (h *handler) deleteIssue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "issueId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid issue id")
		return
	}
	if err := h.app.Issues.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Issue deleted successfully",
	})
}

func (h *handler) listProjectIssues(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	list, err := h.app.Issues.ListByProject(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": list})
}

func (h *handler) listProjectIssuesDetailed(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	list, err := h.app.Issues.ListByProjectDetailed(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": list})
}

func (h *handler) latestIssueStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	summary, err := h.app.Issues.LatestStatus(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "summary": summary})
}

// --- auth and users ---

func (h *handler) signup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.app.Users.Signup(r.Context(), payload.FullName, payload.Email, payload.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User registered successfully",
		"user":    u,
	})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, u, err := h.app.Users.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    u,
	})
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Users.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": list})
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	u, err := h.app.Users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": u})
}

func (h *handler) updateUserProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var payload struct {
		FullName string `json:"fullName"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.app.Users.UpdateProfile(r.Context(), id, payload.FullName, payload.Password); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile updated successfully",
	})
}

func (h *handler) updateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var payload struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.app.Users.UpdateRole(r.Context(), id, payload.Role); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Role updated successfully",
	})
}

// --- projects ---

func (h *handler) createProject(w http.ResponseWriter, r *http.Request) {
	var p project.Project

	if isMultipart(r) {
		if err := h.uploads.parseMultipart(w, r); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		p.Name = r.FormValue("name")
		p.Key = r.FormValue("projectKey")
		p.Type = r.FormValue("projectType")
		p.URL = r.FormValue("projectURL")
		p.Description = r.FormValue("description")
		if raw := strings.TrimSpace(r.FormValue("lead")); raw != "" {
			lead, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "lead must be numeric")
				return
			}
			p.Lead = lead
		}
		logo, err := h.uploads.saveFormFile(r, "projectLogo")
		if err != nil {
			h.log.WithError(err).Warn("project logo upload failed")
			writeError(w, http.StatusBadRequest, "project logo upload failed")
			return
		}
		p.Logo = logo
	} else {
		var payload struct {
			Name        string `json:"name"`
			Key         string `json:"projectKey"`
			Type        string `json:"projectType"`
			Lead        int64  `json:"lead"`
			URL         string `json:"projectURL"`
			Description string `json:"description"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		p = project.Project{
			Name:        payload.Name,
			Key:         payload.Key,
			Type:        payload.Type,
			Lead:        payload.Lead,
			URL:         payload.URL,
			Description: payload.Description,
		}
	}

	created, err := h.app.Projects.Create(r.Context(), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	// Legacy creation response: 200 with no success flag.
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Project created successfully",
		"id":      created.ID,
	})
}

func (h *handler) listProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Projects.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": list})
}

func (h *handler) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "projectId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	p, err := h.app.Projects.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	members, err := h.app.Projects.Members(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"project": p,
			"members": members,
		},
	})
}

func (h *handler) getProjectName(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "projectId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	p, err := h.app.Projects.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"name":    p.Name,
	})
}

func (h *handler) listUserProjects(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	list, err := h.app.Projects.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": list})
}

// --- teams ---

func (h *handler) createTeam(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string  `json:"teamName"`
		Description string  `json:"description"`
		ProjectID   int64   `json:"projectId"`
		Members     []int64 `json:"teamMembers"`
		CreatedBy   int64   `json:"createdBy"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.app.Teams.Create(r.Context(), team.Team{
		Name:        payload.Name,
		Description: payload.Description,
		ProjectID:   payload.ProjectID,
		Members:     payload.Members,
		CreatedBy:   payload.CreatedBy,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Team created successfully",
		"id":      created.ID,
	})
}

func (h *handler) listTeams(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Teams.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": list})
}

// --- chat ---

func (h *handler) listChat(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	list, err := h.app.Chat.List(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": list})
}

func (h *handler) postChat(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	msg, err := h.app.Chat.Post(r.Context(), projectID, userID, payload.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.hub.Broadcast(&msg)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "data": msg})
}

func (h *handler) deleteChat(w http.ResponseWriter, r *http.Request) {
	messageID, err := pathID(r, "messageId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}
	if err := h.app.Chat.Delete(r.Context(), messageID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Message deleted successfully",
	})
}

func (h *handler) chatSocket(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	h.hub.Subscribe(w, r, projectID)
}

// --- reports ---

func (h *handler) uploadReport(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		writeError(w, http.StatusBadRequest, "multipart form expected")
		return
	}
	if err := h.uploads.parseMultipart(w, r); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("userId")), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "userId must be numeric")
		return
	}
	image, err := h.uploads.saveFormFile(r, "reportImage")
	if err != nil {
		h.log.WithError(err).Warn("report image upload failed")
		writeError(w, http.StatusBadRequest, "report image upload failed")
		return
	}
	created, err := h.app.Reports.Submit(r.Context(), userID, r.FormValue("reportText"), image)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Report uploaded successfully",
		"id":      created.ID,
	})
}

func (h *handler) listReports(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Reports.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": list})
}

func (h *handler) listUserReports(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	list, err := h.app.Reports.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": list})
}

// --- mail ---

func (h *handler) sendMail(w http.ResponseWriter, r *http.Request) {
	if h.app.Mailer == nil {
		writeError(w, http.StatusNotImplemented, "mail delivery not configured")
		return
	}
	var payload struct {
		AssigneeEmail string `json:"assigneeEmail"`
		AssigneeName  string `json:"assigneeName"`
		IssueDetails  struct {
			Summary     string `json:"summary"`
			Description string `json:"description"`
			Status      string `json:"status"`
		} `json:"issueDetails"`
		ProjectID int64 `json:"projectId"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req := mailer.Request{
		AssigneeEmail: payload.AssigneeEmail,
		AssigneeName:  payload.AssigneeName,
		Summary:       payload.IssueDetails.Summary,
		Description:   payload.IssueDetails.Description,
		Status:        payload.IssueDetails.Status,
		ProjectID:     payload.ProjectID,
	}
	if err := h.app.Mailer.Send(r.Context(), req); err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeServiceError(w, err)
			return
		}
		metrics.RecordMailDelivery(false)
		writeError(w, http.StatusBadGateway, "mail delivery failed")
		return
	}
	metrics.RecordMailDelivery(true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Email sent successfully",
	})
}
