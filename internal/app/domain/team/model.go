// Package team defines teams attached to a project.
package team

import "time"

// Team is a named group of users working on a project. Members holds user
// ids; the store persists them as a JSON array.
type Team struct {
	ID          int64     `json:"id"`
	Name        string    `json:"teamName"`
	Description string    `json:"description"`
	ProjectID   int64     `json:"projectId"`
	Members     []int64   `json:"teamMembers"`
	CreatedBy   int64     `json:"createdBy"`
	UpdatedBy   int64     `json:"updatedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
