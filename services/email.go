package services

import (
	"bytes"
	"html/template"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

func SendEmail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@lisan.app"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(host, port, user, pass)

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Could not send email to %s: %v", to, err)
		return err
	}

	return nil
}

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"/></head>
<body style="margin:0;padding:0;background-color:#f4f4f4;font-family:Helvetica,Arial,sans-serif;color:#333;">
  <div style="max-width:600px;margin:40px auto;background:#fff;padding:40px;border:1px solid #ddd;border-radius:8px;">
    <div style="border-bottom:1px solid #eee;padding-bottom:20px;margin-bottom:30px;">
      <span style="font-size:24px;font-weight:bold;">LISAN</span>
    </div>
    <div style="font-size:18px;font-weight:bold;margin-bottom:15px;">Hello, {{.Name}}</div>
    <div style="font-size:16px;color:#555;margin-bottom:20px;">
      Thanks for signing up. Use the code below to verify your account:
    </div>
    <div style="background:#f8f9fa;border:1px dashed #ccc;border-radius:6px;padding:20px;text-align:center;margin:25px 0;">
      <span style="font-family:monospace;font-size:32px;font-weight:bold;letter-spacing:5px;">{{.Code}}</span>
    </div>
    <div style="font-size:14px;color:#555;">This code is valid for 24 hours. Never share it with anyone.</div>
  </div>
</body>
</html>`))

func verificationBody(name, code string) (string, error) {
	var buf bytes.Buffer
	err := verificationTmpl.Execute(&buf, map[string]string{"Name": name, "Code": code})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendVerificationEmail dispatches the OTP asynchronously. A failed send is
// logged, not surfaced: the user and token rows already exist and the code
// can be re-requested via /send-code.
func SendVerificationEmail(to, name, code string) {
	body, err := verificationBody(name, code)
	if err != nil {
		log.Printf("Could not render verification email for %s: %v", to, err)
		return
	}

	go SendEmail(to, "Your LISAN verification code", body)
}
