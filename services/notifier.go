package services

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"time"

	"molding-inventory/apperr"
	"molding-inventory/config"
	"molding-inventory/logger"

	"gopkg.in/gomail.v2"
)

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type ReorderNotifier struct {
	sender MailSender
	from   string
	to     []string
	log    *logger.Logger
}

func NewReorderNotifier(cfg *config.Config, log *logger.Logger) *ReorderNotifier {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return NewReorderNotifierWithSender(dialer, cfg.ReorderMailFrom, cfg.ReorderMailTo, log)
}

func NewReorderNotifierWithSender(sender MailSender, from string, to []string, log *logger.Logger) *ReorderNotifier {
	return &ReorderNotifier{sender: sender, from: from, to: to, log: log.With("service", "ReorderNotifier")}
}

var reorderMailTemplate = template.Must(template.New("reorder").Parse(`<h3>Reorder list {{.Date}}</h3>
<p>{{len .Items}} item(s) at or below their reorder point.</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Type</th><th>Name</th><th>Current</th><th>Reorder Point</th><th>Suggested Order</th><th>Supplier</th><th>Urgency</th></tr>
{{range .Items}}<tr><td>{{.Kind}}</td><td>{{.Name}}</td><td>{{.CurrentStock}} {{.Unit}}</td><td>{{.ReorderPoint}}</td><td>{{.SuggestedOrder}}</td><td>{{.Supplier}}</td><td>{{.Urgency}}</td></tr>
{{end}}</table>`))

// BuildMessage renders the HTML summary and attaches the reorder workbook.
func (n *ReorderNotifier) BuildMessage(items []ReorderItem, now time.Time) (*gomail.Message, error) {
	const op = "ReorderNotifier.BuildMessage"
	var body bytes.Buffer
	err := reorderMailTemplate.Execute(&body, struct {
		Date  string
		Items []ReorderItem
	}{now.Format("2006-01-02"), items})
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, op, err)
	}

	wb, err := BuildReorderWorkbook(items)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, op, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", n.to...)
	msg.SetHeader("Subject", "Reorder list "+now.Format("2006-01-02"))
	msg.SetBody("text/html", body.String())
	msg.Attach("reorder-"+now.Format("20060102")+".xlsx", gomail.SetCopyFunc(func(w io.Writer) error {
		return wb.Write(w)
	}))
	return msg, nil
}

// Send mails the list. An empty list sends nothing.
func (n *ReorderNotifier) Send(ctx context.Context, items []ReorderItem) error {
	const op = "ReorderNotifier.Send"
	if len(n.to) == 0 {
		return apperr.New(apperr.InvalidInput, op, "no reorder recipients configured")
	}
	if len(items) == 0 {
		n.log.Info("Nothing to reorder, mail skipped")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return apperr.Wrap(apperr.StoreUnavailable, op, err)
	}

	msg, err := n.BuildMessage(items, time.Now())
	if err != nil {
		return err
	}
	if err := n.sender.DialAndSend(msg); err != nil {
		n.log.Error("Reorder mail failed", "error", err)
		return apperr.Wrap(apperr.StoreUnavailable, op, err)
	}
	n.log.Info("Reorder mail sent", "recipients", len(n.to), "items", len(items))
	return nil
}
