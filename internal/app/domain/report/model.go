// Package report defines user-submitted work reports.
package report

import "time"

// Report is a text report with a mandatory image, submitted by a user.
// AuthorName is filled from the users table when listing all reports.
type Report struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Text       string    `json:"reportText"`
	Image      string    `json:"reportImage"`
	AuthorName string    `json:"fullName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
