// Package project defines the project entity grouping issues and members.
package project

import "time"

// Project is a container grouping issues and members.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Key         string    `json:"projectKey"`
	Type        string    `json:"projectType"`
	Lead        int64     `json:"lead"`
	LeadName    string    `json:"leadName,omitempty"`
	URL         string    `json:"projectURL"`
	Description string    `json:"description"`
	Logo        string    `json:"projectLogo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
