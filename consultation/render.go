package consultation

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Document is the rendered notification email for one consultation request.
type Document struct {
	Subject string
	HTML    string
}

type notificationView struct {
	Name          string
	Age           string
	ContactMethod string
	ContactLabel  string
	ContactValue  string
	Services      []string
	Date          string
	Time          string
}

var notificationTmpl = template.Must(template.New("consultation").Parse(`<html>
  <body style="background-color:#ffffff;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">
    <div style="margin:0 auto;padding:20px 0 48px;max-width:580px;">
      <h1 style="color:#1f2937;font-size:24px;margin:40px 0;">New Consultation Request</h1>

      <div style="margin:24px 0;">
        <h2 style="color:#374151;font-size:18px;margin:20px 0 10px;">Client Information</h2>
        <p style="color:#374151;font-size:14px;margin:8px 0;"><strong>Name:</strong> {{.Name}}</p>
        <p style="color:#374151;font-size:14px;margin:8px 0;"><strong>Age:</strong> {{.Age}}</p>
        <p style="color:#374151;font-size:14px;margin:8px 0;"><strong>Preferred Contact Method:</strong> {{.ContactMethod}}</p>
        <p style="color:#374151;font-size:14px;margin:8px 0;"><strong>{{.ContactLabel}}:</strong> {{.ContactValue}}</p>
      </div>

      <hr style="border-color:#e5e7eb;margin:20px 0;" />

      <div style="margin:24px 0;">
        <h2 style="color:#374151;font-size:18px;margin:20px 0 10px;">Services of Interest</h2>
        {{range .Services}}<p style="color:#374151;font-size:14px;margin:8px 0;">&bull; {{.}}</p>
        {{end}}
      </div>

      <hr style="border-color:#e5e7eb;margin:20px 0;" />

      <div style="margin:24px 0;">
        <h2 style="color:#374151;font-size:18px;margin:20px 0 10px;">Preferred Appointment</h2>
        <p style="color:#374151;font-size:14px;margin:8px 0;"><strong>Date:</strong> {{.Date}}</p>
        <p style="color:#374151;font-size:14px;margin:8px 0;"><strong>Time:</strong> {{.Time}}</p>
      </div>

      <hr style="border-color:#e5e7eb;margin:20px 0;" />

      <p style="color:#6b7280;font-size:12px;margin:32px 0 0;text-align:center;">
        This consultation request was submitted through the Wanderi Insurance website.
      </p>
    </div>
  </body>
</html>
`))

// Render maps a validated request onto the operator notification email.
// It is pure: the same request always produces byte-identical output.
func Render(req Request) (Document, error) {
	view := notificationView{
		Name:     req.Name,
		Age:      req.Age,
		Services: make([]string, 0, len(req.Services)),
		Time:     req.Time,
	}

	switch req.ContactMethod {
	case ContactPhone:
		view.ContactMethod = "Phone"
		view.ContactLabel = "Phone"
		view.ContactValue = req.Phone
	default:
		view.ContactMethod = "Email"
		view.ContactLabel = "Email"
		view.ContactValue = req.Email
	}

	for _, code := range req.Services {
		view.Services = append(view.Services, ServiceLabel(code))
	}

	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return Document{}, fmt.Errorf("render: invalid date %q: %w", req.Date, err)
	}
	view.Date = date.Format("Monday, January 2, 2006")

	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, view); err != nil {
		return Document{}, fmt.Errorf("render: %w", err)
	}

	return Document{
		Subject: fmt.Sprintf("New Consultation Request from %s", req.Name),
		HTML:    buf.String(),
	}, nil
}
