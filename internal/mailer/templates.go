package mailer

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
)

type row struct {
	Label string
	Value string
}

type view struct {
	Title string
	Intro string
	Rows  []row
	Body  string
}

var htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#1f2937">
<h2>{{.Title}}</h2>
<p>{{.Intro}}</p>
<table cellpadding="6" style="border-collapse:collapse">
{{range .Rows}}<tr><td style="font-weight:bold;border-bottom:1px solid #e5e7eb">{{.Label}}</td><td style="border-bottom:1px solid #e5e7eb">{{.Value}}</td></tr>
{{end}}</table>
{{if .Body}}<p style="white-space:pre-wrap">{{.Body}}</p>{{end}}
</body></html>
`))

var textTmpl = texttemplate.Must(texttemplate.New("text").Parse(`{{.Title}}

{{.Intro}}

{{range .Rows}}{{.Label}}: {{.Value}}
{{end}}{{if .Body}}
{{.Body}}
{{end}}`))

func render(v view) (htmlBody, textBody string, err error) {
	var h, t bytes.Buffer
	if err := htmlTmpl.Execute(&h, v); err != nil {
		return "", "", fmt.Errorf("render html: %w", err)
	}
	if err := textTmpl.Execute(&t, v); err != nil {
		return "", "", fmt.Errorf("render text: %w", err)
	}
	return h.String(), t.String(), nil
}

// RegistrationMessage builds the operations-team email for a new registration.
func RegistrationMessage(reg model.Registration, fees model.FeeTable) (Message, error) {
	rows := []row{
		{"Registration ID", fmt.Sprint(reg.ID)},
		{"Type", reg.RegistrationType.Label()},
		{"Full name", reg.FullName},
		{"Organization", reg.OrganizationName},
		{"Position", reg.Position},
		{"Email", reg.Email},
		{"Phone", reg.Phone},
		{"Category", reg.Category},
		{"Fee", fees.Format(reg.RegistrationType)},
	}
	rows = appendOptional(rows,
		row{"Participants", deref(reg.ParticipantCount)},
		row{"Booth requirements", deref(reg.BoothRequirements)},
		row{"Special requirements", deref(reg.SpecialRequirements)},
		row{"Payment preference", deref(reg.PaymentPreference)},
		row{"Additional info", deref(reg.AdditionalInfo)},
	)
	rows = append(rows, row{"Submitted at", reg.SubmittedAt.UTC().Format("2006-01-02 15:04:05 MST")})

	htmlBody, textBody, err := render(view{
		Title: "New BIEW Registration",
		Intro: fmt.Sprintf("A new %s registration was submitted by %s.", reg.RegistrationType, reg.FullName),
		Rows:  rows,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		ReplyTo: reg.Email,
		Subject: fmt.Sprintf("New BIEW %s registration: %s (%s)", reg.RegistrationType, reg.FullName, reg.OrganizationName),
		HTML:    htmlBody,
		Text:    textBody,
	}, nil
}

// ContactMessage builds the operations-team email for a contact form message.
func ContactMessage(m model.ContactMessage) (Message, error) {
	rows := []row{
		{"Name", m.Name},
		{"Email", m.Email},
		{"Enquiry type", m.EnquiryType},
		{"Subject", m.Subject},
	}
	rows = appendOptional(rows, row{"Phone", deref(m.Phone)})

	htmlBody, textBody, err := render(view{
		Title: "New Contact Message",
		Intro: fmt.Sprintf("%s sent a message through the contact form.", m.Name),
		Rows:  rows,
		Body:  m.Message,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		ReplyTo: m.Email,
		Subject: fmt.Sprintf("Contact form [%s]: %s", m.EnquiryType, m.Subject),
		HTML:    htmlBody,
		Text:    textBody,
	}, nil
}

// RegistrationReceived notifies the operations team about reg.
func (d *Dispatcher) RegistrationReceived(ctx context.Context, reg model.Registration, fees model.FeeTable) bool {
	msg, err := RegistrationMessage(reg, fees)
	if err != nil {
		d.fail(&NotificationError{Transport: d.transport.Name(), Subject: "registration", Err: err}, msg)
		return false
	}
	return d.Notify(ctx, msg)
}

// ContactReceived notifies the operations team about a contact message.
func (d *Dispatcher) ContactReceived(ctx context.Context, m model.ContactMessage) bool {
	msg, err := ContactMessage(m)
	if err != nil {
		d.fail(&NotificationError{Transport: d.transport.Name(), Subject: "contact", Err: err}, msg)
		return false
	}
	return d.Notify(ctx, msg)
}

func appendOptional(rows []row, optional ...row) []row {
	for _, r := range optional {
		if r.Value != "" {
			rows = append(rows, r)
		}
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
