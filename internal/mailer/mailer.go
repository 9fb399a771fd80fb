package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/resend/resend-go/v3"
	"github.com/sirupsen/logrus"

	"github.com/lucianocastr/estudiors/internal/config"
	"github.com/lucianocastr/estudiors/internal/domain"
	"github.com/lucianocastr/estudiors/pkg/errors"
)

// Dispatcher delivers one queued notification. Implementations must return
// errors.ErrUnknownTemplate (wrapped) when no handler exists for the item's
// template id.
type Dispatcher interface {
	Dispatch(ctx context.Context, item *domain.NotificationQueueItem) error
}

type templateHandler func(m *Mailer, item *domain.NotificationQueueItem) (html string, err error)

// handlers maps each template id to the function that decodes its payload
// and renders the message body.
var handlers = map[string]templateHandler{
	domain.TemplateNewInquiryAdmin:      renderNewInquiryAdmin,
	domain.TemplateInquiryConfirmation:  renderInquiryConfirmation,
	domain.TemplateAppointmentConfirmed: renderAppointmentConfirmed,
}

type Mailer struct {
	client *resend.Client
	cfg    *config.Config
}

func NewMailer(cfg *config.Config) *Mailer {
	client := resend.NewClient(cfg.Mail.ResendAPIKey)
	return &Mailer{
		client: client,
		cfg:    cfg,
	}
}

func (m *Mailer) Dispatch(ctx context.Context, item *domain.NotificationQueueItem) error {
	handler, ok := handlers[item.Template]
	if !ok {
		return errors.WrapUnknownTemplate(item.Template)
	}

	html, err := handler(m, item)
	if err != nil {
		return fmt.Errorf("render template %s: %w", item.Template, err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.cfg.Mail.FromName, m.cfg.Mail.FromEmail),
		To:      []string{item.Recipient},
		Html:    html,
		Subject: item.Subject,
	}

	_, err = m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"template":  item.Template,
			"recipient": item.Recipient,
		}).WithError(err).Warn("email delivery failed")
		return err
	}

	return nil
}

func renderNewInquiryAdmin(m *Mailer, item *domain.NotificationQueueItem) (string, error) {
	var p domain.NewInquiryAdminPayload
	if err := json.Unmarshal(item.Payload, &p); err != nil {
		return "", err
	}

	urgency := ""
	if p.Urgent {
		urgency = `
	<div style="background-color: #fef2f2; border: 1px solid #fecaca; color: #b91c1c; padding: 12px; border-radius: 6px; margin: 16px 0; font-weight: bold;">
		Consulta marcada como URGENTE
	</div>`
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="UTF-8">
	<title>Nueva consulta recibida</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #111827;">Nueva consulta: %s</h2>
	%s
	<div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
		<div><strong>Nombre:</strong> %s</div>
		<div><strong>Email:</strong> %s</div>
		<div><strong>Teléfono:</strong> %s</div>
		<div><strong>Localidad:</strong> %s</div>
		<div><strong>Especialidad:</strong> %s</div>
		<div><strong>Tipo de problema:</strong> %s</div>
	</div>
	<p><strong>Descripción:</strong></p>
	<p>%s</p>
	<p style="font-size: 12px; color: #9ca3af;">Recibida el %s</p>
</body>
</html>`,
		p.ProblemType,
		urgency,
		p.Name,
		p.Email,
		p.Phone,
		p.Locality,
		p.Specialty,
		p.ProblemType,
		p.Description,
		p.CreatedAt.Format("02/01/2006 15:04"),
	)

	return html, nil
}

func renderInquiryConfirmation(m *Mailer, item *domain.NotificationQueueItem) (string, error) {
	var p domain.InquiryConfirmationPayload
	if err := json.Unmarshal(item.Payload, &p); err != nil {
		return "", err
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="UTF-8">
	<title>Recibimos su consulta</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #111827;">Hola, %s</h2>
	<p>
		Recibimos su consulta sobre <strong>%s</strong> en <strong>%s</strong>.
		Un profesional del estudio la va a revisar y nos vamos a comunicar a la brevedad.
	</p>
	<p>
		Si necesita agregar información puede responder este correo o llamarnos al %s.
	</p>
	<hr style="border: none; border-top: 1px solid #e5e7eb; margin: 30px 0;">
	<p style="font-size: 14px; color: #6b7280;">
		%s<br>%s
	</p>
</body>
</html>`,
		p.Name,
		p.ProblemType,
		m.cfg.Firm.Name,
		m.cfg.Firm.Phone,
		m.cfg.Firm.Name,
		m.cfg.Firm.Address,
	)

	return html, nil
}

func renderAppointmentConfirmed(m *Mailer, item *domain.NotificationQueueItem) (string, error) {
	var p domain.AppointmentConfirmedPayload
	if err := json.Unmarshal(item.Payload, &p); err != nil {
		return "", err
	}

	where := fmt.Sprintf("en nuestras oficinas: %s", m.cfg.Firm.Address)
	if p.Mode == domain.AppointmentModeVirtual {
		where = fmt.Sprintf(`por videollamada: <a href="%s">%s</a>`, p.VideoCallLink, p.VideoCallLink)
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="UTF-8">
	<title>Turno confirmado</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #111827;">Hola, %s</h2>
	<p>Su turno con <strong>%s</strong> quedó confirmado.</p>
	<div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
		<div><strong>Fecha y hora:</strong> %s</div>
		<div><strong>Modalidad:</strong> %s</div>
	</div>
	<p>La reunión será %s.</p>
	<p style="font-size: 14px; color: #6b7280;">
		Si no puede asistir, por favor avísenos con anticipación al %s.
	</p>
</body>
</html>`,
		p.Name,
		m.cfg.Firm.Name,
		p.ConfirmedDate.Format("02/01/2006 15:04"),
		p.Mode,
		where,
		m.cfg.Firm.Phone,
	)

	return html, nil
}
