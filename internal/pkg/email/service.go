package email

import (
	"bytes"
	"context"
	"html/template"
	"sync"

	"github.com/rs/zerolog/log"
)

// Sender interface for sending emails
type Sender interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// Service handles email sending with templates and an async queue
type Service struct {
	client    Sender
	templates map[string]*template.Template
	queue     chan *QueuedEmail
	wg        sync.WaitGroup
}

// QueuedEmail represents an email in the send queue
type QueuedEmail struct {
	To           string
	ToName       string
	Subject      string
	TemplateName string
	Data         interface{}
}

// NewService creates email service
func NewService(config SendGridConfig) *Service {
	s := &Service{
		client:    NewSendGridClient(config),
		templates: make(map[string]*template.Template),
		queue:     make(chan *QueuedEmail, 100),
	}

	s.loadTemplates()

	s.wg.Add(1)
	go s.worker()

	return s
}

// loadTemplates parses all email templates against the base layout
func (s *Service) loadTemplates() {
	bodies := map[string]string{
		"password_reset": PasswordResetTemplate,
		"poke_received":  PokeReceivedTemplate,
		"friend_request": FriendRequestTemplate,
	}

	for name, body := range bodies {
		tmpl, err := template.New(name).Parse(BaseTemplate)
		if err != nil {
			log.Error().Err(err).Str("template", name).Msg("Failed to parse base email template")
			continue
		}
		if _, err := tmpl.Parse(body); err != nil {
			log.Error().Err(err).Str("template", name).Msg("Failed to parse email template")
			continue
		}
		s.templates[name] = tmpl
	}
}

// Queue enqueues an email for async delivery; drops when the queue is full
func (s *Service) Queue(to, toName, templateName, subject string, data interface{}) {
	select {
	case s.queue <- &QueuedEmail{To: to, ToName: toName, Subject: subject, TemplateName: templateName, Data: data}:
	default:
		log.Warn().Str("to", to).Str("template", templateName).Msg("Email queue full, dropping email")
	}
}

// Close drains the queue and stops the worker
func (s *Service) Close() {
	close(s.queue)
	s.wg.Wait()
}

func (s *Service) worker() {
	defer s.wg.Done()
	for qe := range s.queue {
		if err := s.sendTemplated(context.Background(), qe); err != nil {
			log.Error().Err(err).
				Str("to", qe.To).
				Str("template", qe.TemplateName).
				Msg("Failed to send email")
		}
	}
}

func (s *Service) sendTemplated(ctx context.Context, qe *QueuedEmail) error {
	tmpl, ok := s.templates[qe.TemplateName]
	if !ok {
		log.Warn().Str("template", qe.TemplateName).Msg("Unknown email template")
		return nil
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, qe.Data); err != nil {
		return err
	}

	return s.client.Send(ctx, &EmailMessage{
		To:          qe.To,
		ToName:      qe.ToName,
		Subject:     qe.Subject,
		HTMLContent: buf.String(),
	})
}
