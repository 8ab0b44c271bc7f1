// Package mailer sends issue assignment notifications over SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/beedatatech/teamflow/internal/app/services"
	"github.com/beedatatech/teamflow/pkg/logger"
)

// Request describes one assignment notification.
type Request struct {
	AssigneeEmail string
	AssigneeName  string
	Summary       string
	Description   string
	Status        string
	ProjectID     int64
}

// Validate checks the fields the endpoint requires.
func (r Request) Validate() error {
	if strings.TrimSpace(r.AssigneeEmail) == "" || strings.TrimSpace(r.AssigneeName) == "" ||
		strings.TrimSpace(r.Summary) == "" || strings.TrimSpace(r.Status) == "" {
		return services.Invalidf("assignee email, assignee name, summary and status are required")
	}
	return nil
}

// Sender delivers assignment notifications.
type Sender interface {
	Send(ctx context.Context, req Request) error
}

// Config holds SMTP delivery settings.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AppBaseURL string
}

// SMTP sends notifications through an implicit-TLS SMTP endpoint
// (e.g. smtp.gmail.com:465).
type SMTP struct {
	cfg Config
	log *logger.Logger
}

var _ Sender = (*SMTP)(nil)

// New constructs an SMTP sender.
func New(cfg Config, log *logger.Logger) *SMTP {
	if log == nil {
		log = logger.NewDefault("mailer")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTP{cfg: cfg, log: log}
}

// statusColor maps known statuses to badge colors; unknown statuses render
// gray.
func statusColor(status string) string {
	switch status {
	case "To Do":
		return "#ff6f61"
	case "In Progress":
		return "#ffa500"
	case "Done":
		return "#32cd32"
	default:
		return "#d3d3d3"
	}
}

var bodyTemplate = template.Must(template.New("assignment").Parse(`<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.5; color: #333;">
    <div style="margin: 0 auto; padding: 20px; max-width: 600px; border: 1px solid #ddd; border-radius: 8px; background-color: #f9f9f9;">
      <h2>New Issue Assigned to You</h2>
      <p><strong>Assignee:</strong> {{.AssigneeName}}</p>
      <p><strong>Issue Summary:</strong> {{.Summary}}</p>
      <p><strong>Issue Description:</strong></p>
      <div style="padding: 10px; border: 1px solid #ccc; background-color: #fff; margin: 10px 0; border-radius: 4px;">{{.Description}}</div>
      <p>
        <strong>Status:</strong>
        <span style="color: white; background-color: {{.StatusColor}}; padding: 5px 10px; border-radius: 4px; font-weight: bold;">{{.Status}}</span>
      </p>
      <div style="text-align: center;">
        <a href="{{.TaskURL}}" target="_blank" style="display: inline-block; background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 4px; font-weight: bold;">Open Task</a>
      </div>
      <p>Thank you for your attention to this issue!</p>
    </div>
  </body>
</html>`))

// Render produces the HTML body for a notification.
func Render(req Request, appBaseURL string) (string, error) {
	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, struct {
		Request
		StatusColor string
		TaskURL     string
	}{
		Request:     req,
		StatusColor: statusColor(req.Status),
		TaskURL:     strings.TrimRight(appBaseURL, "/") + "/project/" + strconv.FormatInt(req.ProjectID, 10),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Send validates the request, renders the HTML body and delivers it.
func (m *SMTP) Send(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	body, err := Render(req, m.cfg.AppBaseURL)
	if err != nil {
		return fmt.Errorf("render mail body: %w", err)
	}

	msg := buildMessage(m.cfg.From, req.AssigneeEmail, "You Have Been Assigned a New Issue", body)

	if err := m.deliver(ctx, req.AssigneeEmail, msg); err != nil {
		m.log.WithError(err).WithField("to", req.AssigneeEmail).Warn("mail delivery failed")
		return fmt.Errorf("send mail: %w", err)
	}

	m.log.WithField("to", req.AssigneeEmail).WithField("project_id", req.ProjectID).Info("assignment mail sent")
	return nil
}

func (m *SMTP) deliver(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: m.cfg.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(htmlBody)
	buf.WriteString("\r\n")
	return buf.Bytes()
}
