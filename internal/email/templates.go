package email

import (
	"bytes"
	"html/template"
)

const (
	TagPasswordReset = "password-reset"
	TagThankYou      = "subscription-thank-you"
)

var passwordResetTmpl = template.Must(template.New("reset").Parse(
	`<p>You requested a password reset for your Blogify account.</p>
<p><a href="{{.Link}}">Reset your password</a></p>
<p>This link expires in {{.Minutes}} minutes. If you did not ask for it, ignore this email.</p>`))

var thankYouTmpl = template.Must(template.New("thanks").Parse(
	`<h1>Thank you for subscribing!</h1>
<p>We will keep {{.Email}} posted about new stories on Blogify.</p>`))

// PasswordReset builds the reset message carrying link.
func PasswordReset(to, link string, minutes int) (SendEmailParams, error) {
	body, err := render(passwordResetTmpl, struct {
		Link    string
		Minutes int
	}{link, minutes})
	if err != nil {
		return SendEmailParams{}, err
	}
	return SendEmailParams{
		SendTo:   to,
		Subject:  "Reset your Blogify password",
		BodyHTML: body,
		Tag:      TagPasswordReset,
	}, nil
}

// ThankYou builds the subscription confirmation message.
func ThankYou(to string) (SendEmailParams, error) {
	body, err := render(thankYouTmpl, struct{ Email string }{to})
	if err != nil {
		return SendEmailParams{}, err
	}
	return SendEmailParams{
		SendTo:   to,
		Subject:  "Thanks for subscribing to Blogify",
		BodyHTML: body,
		Tag:      TagThankYou,
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
