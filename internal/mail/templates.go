package mail

import (
	"bytes"
	"html/template"

	"github.com/summitridge/leadgen/internal/config"
	"github.com/summitridge/leadgen/internal/domain"
)

var notificationTmpl = template.Must(template.New("notification").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
<h2>New lead from the website</h2>
<table cellpadding="4">
<tr><td><b>Name</b></td><td>{{.Lead.Name}}</td></tr>
<tr><td><b>Email</b></td><td>{{.Lead.Email}}</td></tr>
{{if .Lead.Phone}}<tr><td><b>Phone</b></td><td>{{.Lead.Phone}}</td></tr>{{end}}
<tr><td><b>Source</b></td><td>{{.Lead.Source}}</td></tr>
{{if .Lead.ProjectType}}<tr><td><b>Project</b></td><td>{{.Lead.ProjectType}}</td></tr>{{end}}
{{if .Lead.Score}}<tr><td><b>Score</b></td><td>{{.Lead.Score.Score}} &mdash; {{.Lead.Score.Reasoning}}</td></tr>{{end}}
</table>
{{if not .Details.IsEmpty}}
<h3>Project details</h3>
<table cellpadding="4">
{{if .Details.ProjectType}}<tr><td><b>Type</b></td><td>{{.Details.ProjectType}}</td></tr>{{end}}
{{if .Details.ServiceName}}<tr><td><b>Service</b></td><td>{{.Details.ServiceName}}</td></tr>{{end}}
{{if .Details.ProductInterest}}<tr><td><b>Product</b></td><td>{{.Details.ProductInterest}}</td></tr>{{end}}
{{if .Details.SquareFootage}}<tr><td><b>Size</b></td><td>{{.Details.SquareFootage}}</td></tr>{{end}}
{{if .Details.Materials}}<tr><td><b>Materials</b></td><td>{{.Details.Materials}}</td></tr>{{end}}
{{if .Details.Timeline}}<tr><td><b>Timeline</b></td><td>{{.Details.Timeline}}</td></tr>{{end}}
{{if .Details.Budget}}<tr><td><b>Budget</b></td><td>{{.Details.Budget}}</td></tr>{{end}}
{{if .Details.Description}}<tr><td><b>Summary</b></td><td>{{.Details.Description}}</td></tr>{{end}}
</table>
{{end}}
{{if .Lead.Message}}<h3>Message</h3><p>{{.Lead.Message}}</p>{{end}}
<p>Lead ID: {{.Lead.ID}}</p>
</body>
</html>`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
<p>Hi{{if .Lead.Name}} {{.Lead.Name}}{{end}},</p>
<p>Thanks for reaching out to {{.Biz.Name}}. We've received your request and
{{if .Biz.Owner}}{{.Biz.Owner}} or someone from our team{{else}}someone from our team{{end}}
will get back to you within one business day.</p>
{{if .Lead.ProjectType}}<p>What we have so far: <b>{{.Lead.ProjectType}}</b>.
Feel free to reply to this email with anything else we should know.</p>{{end}}
<p>If it's urgent, call us{{if .Biz.Phone}} at {{.Biz.Phone}}{{end}}.</p>
<p>&mdash; {{.Biz.Name}}{{if .Biz.Motto}}<br><i>{{.Biz.Motto}}</i>{{end}}</p>
</body>
</html>`))

type templateData struct {
	Biz     config.BusinessConfig
	Lead    *domain.Lead
	Details domain.ProjectDetails
}

func leadNotificationBody(biz config.BusinessConfig, lead *domain.Lead) (string, error) {
	return render(notificationTmpl, templateData{Biz: biz, Lead: lead, Details: lead.ProjectDetails})
}

func leadConfirmationBody(biz config.BusinessConfig, lead *domain.Lead) (string, error) {
	return render(confirmationTmpl, templateData{Biz: biz, Lead: lead, Details: lead.ProjectDetails})
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
