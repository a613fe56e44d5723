package worker

// email_worker.go
// Processes email jobs from QueueEmail: loads the archived price sheet and
// sends it through the mailer.

import (
	"context"
	"encoding/json"
	"fmt"

	"foboh/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail   string `json:"to_email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	SheetName string `json:"sheet_name,omitempty"`
}

// MailSender is satisfied by *infra.Mailer.
type MailSender interface {
	Send(to, subject, body string, attachments ...infra.Attachment) error
}

type EmailWorker struct {
	mailer MailSender
	store  infra.SheetStore
}

func NewEmailWorker(mailer MailSender, store infra.SheetStore) *EmailWorker {
	return &EmailWorker{mailer: mailer, store: store}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return permanent(fmt.Errorf("email_worker: invalid payload: %w", err))
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	var attachments []infra.Attachment
	if payload.SheetName != "" {
		data, err := w.store.Load(ctx, payload.SheetName)
		if err != nil {
			return err
		}
		attachments = append(attachments, infra.Attachment{
			Name:        payload.SheetName,
			ContentType: "application/pdf",
			Data:        data,
		})
	}

	if err := w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body, attachments...); err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: price sheet sent")
	return nil
}
