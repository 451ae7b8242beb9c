// Package email sends the invoice email. Delivery is best-effort:
// checkout never fails because the mail could not go out, callers log
// the error and move on.
package email

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"mishki-store/internal/config"
	"mishki-store/internal/model"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"
)

//go:embed invoice_email.html.tmpl
var invoiceEmailTmpl string

// Notifier sends the invoice email with the rendered PDF attached.
type Notifier interface {
	SendInvoice(to string, inv model.InvoiceData, pdf []byte) error
	Configured() bool
}

// smtpNotifier sends through a configured SMTP relay.
type smtpNotifier struct {
	cfg     config.SMTPConfig
	baseURL string
	tmpl    *template.Template
	logger  zerolog.Logger
}

// NewNotifier builds a notifier from the SMTP config. When the config
// is incomplete it returns a disabled notifier whose SendInvoice fails
// with model.ErrSMTPUnavailable.
func NewNotifier(cfg config.SMTPConfig, baseURL string, logger zerolog.Logger) (Notifier, error) {
	tmpl, err := template.New("invoice_email").Parse(invoiceEmailTmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice email template: %w", err)
	}

	if !cfg.Configured() {
		logger.Warn().Msg("SMTP not configured, invoice emails disabled")
		return &disabledNotifier{}, nil
	}

	return &smtpNotifier{
		cfg:     cfg,
		baseURL: baseURL,
		tmpl:    tmpl,
		logger:  logger.With().Str("component", "email").Logger(),
	}, nil
}

func (n *smtpNotifier) Configured() bool { return true }

// SendInvoice renders the HTML body and sends the message with the
// invoice PDF attached.
func (n *smtpNotifier) SendInvoice(to string, inv model.InvoiceData, pdf []byte) error {
	body, err := n.renderBody(inv)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Votre facture %s", inv.InvoiceNumber))
	msg.SetBody("text/html", body)
	msg.Attach(
		fmt.Sprintf("%s.pdf", inv.InvoiceNumber),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
	)

	dialer := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Pass)
	if err := dialer.DialAndSend(msg); err != nil {
		n.logger.Error().Err(err).Str("invoice", inv.InvoiceNumber).Msg("failed to send invoice email")
		return fmt.Errorf("failed to send invoice email: %w", err)
	}

	n.logger.Info().Str("invoice", inv.InvoiceNumber).Msg("invoice email sent")
	return nil
}

type emailBody struct {
	InvoiceNumber string
	OrderID       string
	BuyerName     string
	Total         string
	Currency      string
	IsB2B         bool
	CTALink       string
}

func (n *smtpNotifier) renderBody(inv model.InvoiceData) (string, error) {
	isB2B := inv.Buyer.Company != ""

	link := n.baseURL + "/compte/commandes"
	if isB2B {
		link = n.baseURL + "/pro/commandes"
	}

	data := emailBody{
		InvoiceNumber: inv.InvoiceNumber,
		OrderID:       inv.OrderNumber,
		BuyerName:     buyerDisplayName(inv),
		Total:         fmt.Sprintf("%.2f", inv.Totals.Total),
		Currency:      inv.Totals.Currency,
		IsB2B:         isB2B,
		CTALink:       link,
	}

	var buf bytes.Buffer
	if err := n.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render invoice email body: %w", err)
	}
	return buf.String(), nil
}

func buyerDisplayName(inv model.InvoiceData) string {
	if inv.Buyer.Company != "" {
		return inv.Buyer.Company
	}
	if inv.Buyer.Name != "" {
		return inv.Buyer.Name
	}
	return "client"
}

// disabledNotifier stands in when SMTP is not configured.
type disabledNotifier struct{}

func (d *disabledNotifier) Configured() bool { return false }

func (d *disabledNotifier) SendInvoice(string, model.InvoiceData, []byte) error {
	return model.ErrSMTPUnavailable
}
