package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
)

const (
	subjectVerification = "Verify your email address"
	subjectPasswordReset = "Password reset code"
	subjectOrderPlaced   = "Order %s received"
	subjectOrderStatus   = "Order %s is now %s"
)

var htmlTemplates = template.Must(template.New("email").Parse(`
{{define "verification"}}<p>Hello {{.Name}},</p>
<p>Your verification code is: <b>{{.Code}}</b></p>
<p>This code will expire in {{.Minutes}} minutes.</p>
<p>If you did not request this, please ignore this email.</p>{{end}}
{{define "reset"}}<p>Hello {{.Name}},</p>
<p>Your password reset code is: <b>{{.Code}}</b></p>
<p>This code will expire in {{.Minutes}} minutes.</p>
<p>If you did not request a password reset, you can ignore this email.</p>{{end}}
{{define "order"}}<p>Thank you for your order <b>{{.Order.OrderNumber}}</b>.</p>
<table>{{range .Order.Items}}<tr><td>{{.VehicleID}}</td><td>{{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>{{end}}</table>
<p>Total: <b>{{printf "%.2f" .Order.TotalAmount}}</b></p>
<p>Payment method: {{.Order.PaymentMethod}}</p>{{end}}
{{define "status"}}<p>Your order <b>{{.Order.OrderNumber}}</b> is now <b>{{.Order.Status}}</b>.</p>
{{if .Order.Notes}}<p>{{.Order.Notes}}</p>{{end}}{{end}}
`))

var textTemplates = texttemplate.Must(texttemplate.New("email").Parse(`
{{define "verification"}}Hello {{.Name}},
Your verification code is: {{.Code}}
This code will expire in {{.Minutes}} minutes.{{end}}
{{define "reset"}}Hello {{.Name}},
Your password reset code is: {{.Code}}
This code will expire in {{.Minutes}} minutes.{{end}}
{{define "order"}}Thank you for your order {{.Order.OrderNumber}}.
{{range .Order.Items}}- {{.VehicleID}} x{{.Quantity}} @ {{printf "%.2f" .Price}}
{{end}}Total: {{printf "%.2f" .Order.TotalAmount}}{{end}}
{{define "status"}}Your order {{.Order.OrderNumber}} is now {{.Order.Status}}.{{end}}
`))

type codeData struct {
	Name    string
	Code    string
	Minutes int
}

type orderData struct {
	Order *entity.Order
}

// Notifier renders the transactional emails and hands them to an EmailSender.
type Notifier struct {
	sender      EmailSender
	codeMinutes int
}

func NewNotifier(sender EmailSender, codeMinutes int) *Notifier {
	return &Notifier{sender: sender, codeMinutes: codeMinutes}
}

func render(name string, data interface{}) (string, string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&htmlBuf, name, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s html: %w", name, err)
	}
	if err := textTemplates.ExecuteTemplate(&textBuf, name, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s text: %w", name, err)
	}
	return strings.TrimSpace(htmlBuf.String()), strings.TrimSpace(textBuf.String()), nil
}

func (n *Notifier) send(ctx context.Context, to, subject, tmpl string, data interface{}) error {
	bodyHTML, bodyText, err := render(tmpl, data)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, []string{to}, subject, bodyHTML, bodyText)
}

func (n *Notifier) SendVerificationCode(ctx context.Context, to, name, code string) error {
	return n.send(ctx, to, subjectVerification, "verification", codeData{Name: name, Code: code, Minutes: n.codeMinutes})
}

func (n *Notifier) SendPasswordReset(ctx context.Context, to, name, code string) error {
	return n.send(ctx, to, subjectPasswordReset, "reset", codeData{Name: name, Code: code, Minutes: n.codeMinutes})
}

func (n *Notifier) SendOrderConfirmation(ctx context.Context, to string, order *entity.Order) error {
	return n.send(ctx, to, fmt.Sprintf(subjectOrderPlaced, order.OrderNumber), "order", orderData{Order: order})
}

func (n *Notifier) SendOrderStatusUpdate(ctx context.Context, to string, order *entity.Order) error {
	return n.send(ctx, to, fmt.Sprintf(subjectOrderStatus, order.OrderNumber, order.Status), "status", orderData{Order: order})
}
