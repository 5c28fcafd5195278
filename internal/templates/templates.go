package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

const (
	CustomerConfirmation = "customer_confirmation.html"
	AdminNotification    = "admin_notification.html"
)

// Emails holds every email template, keyed by file name.
var Emails = template.Must(template.ParseFS(files, "*.html"))
