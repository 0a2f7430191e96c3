package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

type emailTemplate struct {
	subject string
	body    *template.Template
}

const layout = `<div dir="rtl" style="font-family:Arial,sans-serif;line-height:1.6">{{template "content" .}}</div>`

func mustTemplate(content string) *template.Template {
	t := template.Must(template.New("layout").Funcs(template.FuncMap{
		"join": func(v interface{}) string {
			switch items := v.(type) {
			case []string:
				return strings.Join(items, ", ")
			case []interface{}:
				parts := make([]string, 0, len(items))
				for _, it := range items {
					parts = append(parts, fmt.Sprint(it))
				}
				return strings.Join(parts, ", ")
			case nil:
				return ""
			}
			return fmt.Sprint(v)
		},
	}).Parse(layout))
	return template.Must(t.New("content").Parse(content))
}

var templates = map[string]emailTemplate{
	"therapist_approved": {
		subject: "ברוכים הבאים! הבקשה שלך אושרה",
		body: mustTemplate(`<h2>שלום {{.recipientName}},</h2>
<p>שמחים לבשר שהבקשה שלך להצטרף כמטפל/ת אושרה.</p>
<p>כדי להיכנס לחשבון יש להגדיר סיסמה:</p>
<p><a href="{{.passwordResetLink}}">הגדרת סיסמה</a></p>
<p>לאחר מכן אפשר להתחבר כאן: <a href="{{.loginUrl}}">{{.loginUrl}}</a></p>`),
	},
	"patient_assigned_therapist": {
		subject: "שובץ אליך מטופל/ת חדש/ה",
		body: mustTemplate(`<h2>שלום {{.recipientName}},</h2>
<p>שובץ אליך מטופל/ת חדש/ה:</p>
<ul>
<li>שם: {{.patientName}}</li>
<li>טלפון: {{.patientPhone}}</li>
<li>אימייל: {{.patientEmail}}</li>
<li>סיבת פנייה: {{.mainConcern}}</li>
{{if .preferredGender}}<li>העדפת מגדר מטפל: {{.preferredGender}}</li>{{end}}
{{if .availability}}<li>זמינות: {{join .availability}}</li>{{end}}
</ul>
<p><a href="{{.dashboardUrl}}">לאזור האישי</a></p>`),
	},
	"patient_assigned_patient": {
		subject: "נמצא עבורך מטפל/ת",
		body: mustTemplate(`<h2>שלום {{.recipientName}},</h2>
<p>שובצת למטפל/ת <strong>{{.therapistName}}</strong>{{if .therapistSpecialization}} ({{.therapistSpecialization}}){{end}}.</p>
<p>{{.contactMessage}}</p>`),
	},
	"new_patient_admin_alert": {
		subject: "פנייה חדשה התקבלה",
		body: mustTemplate(`<h2>פנייה חדשה</h2>
<ul>
<li>שם: {{.name}}</li>
<li>טלפון: {{.phone}}</li>
<li>עיר: {{.city}}</li>
<li>סוג: {{.kind}}</li>
</ul>
<p>{{.message}}</p>`),
	},
	"password_reset": {
		subject: "איפוס סיסמה",
		body: mustTemplate(`<h2>שלום {{.recipientName}},</h2>
<p>לאיפוס הסיסמה יש ללחוץ על הקישור:</p>
<p><a href="{{.resetLink}}">איפוס סיסמה</a></p>`),
	},
}

// Render produces the subject and HTML body for a message.
func Render(msg Message) (string, string, error) {
	tpl, ok := templates[msg.Type]
	if !ok {
		return "", "", fmt.Errorf("no template for notification type %q", msg.Type)
	}
	var buf bytes.Buffer
	if err := tpl.body.ExecuteTemplate(&buf, "layout", msg.Data); err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", msg.Type, err)
	}
	return tpl.subject, buf.String(), nil
}
