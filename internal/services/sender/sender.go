// Package sender рассылает напоминания, полученные из очереди, по электронной почте:
// владельцу салона о резервной выгрузке, абоненту о продлении абонемента.
package sender

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/salon-subscribers/internal/export"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/sl"
	"github.com/magabrotheeeer/salon-subscribers/internal/lib/smtp"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// ErrMalformed тело сообщения не разбирается. Повторная доставка такого сообщения бессмысленна.
var ErrMalformed = errors.New("malformed reminder message")

// Виды уведомлений, они же метки метрик.
const (
	KindBackup  = "backup"
	KindRenewal = "renewal"
)

// Metrics учёт отправленных писем.
type Metrics interface {
	ObserveNotification(kind string, err error)
}

// Service отправляет письма через SMTP-транспорт.
type Service struct {
	transport  smtp.TransportInterface
	log        *slog.Logger
	metrics    Metrics
	ownerEmail string
	appName    string
}

// New создаёт Service. ownerEmail получает напоминания о выгрузке, metrics может быть nil.
func New(transport smtp.TransportInterface, log *slog.Logger, metrics Metrics, ownerEmail, appName string) *Service {
	return &Service{
		transport:  transport,
		log:        log,
		metrics:    metrics,
		ownerEmail: ownerEmail,
		appName:    appName,
	}
}

// SendBackupReminder напоминает владельцу о невыгруженных изменениях.
func (s *Service) SendBackupReminder(body []byte) error {
	const op = "sender.SendBackupReminder"

	var msg models.BackupReminder
	if err := json.Unmarshal(body, &msg); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, ErrMalformed, err)
	}
	if s.ownerEmail == "" {
		s.log.Warn("owner email is not configured, backup reminder skipped")
		return nil
	}

	last := "never"
	if msg.LastExportTime != nil {
		last = msg.LastExportTime.Format("Jan 2, 2006")
	}
	subject := fmt.Sprintf("%s: %d changes are not backed up", s.appName, msg.ChangesSinceExport)
	text := fmt.Sprintf("Hello!\r\n\r\n"+
		"%d changes have been made to the subscriber database since the last export.\r\n"+
		"Last export: %s.\r\n\r\n"+
		"Please export the latest data to keep your backup synchronized.\r\n",
		msg.ChangesSinceExport, last)

	err := s.sendEmail([]string{s.ownerEmail}, subject, text)
	s.observe(KindBackup, err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SendRenewalReminder напоминает абоненту о скором окончании абонемента.
func (s *Service) SendRenewalReminder(body []byte) error {
	const op = "sender.SendRenewalReminder"

	var msg models.RenewalReminder
	if err := json.Unmarshal(body, &msg); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, ErrMalformed, err)
	}
	if msg.Email == "" {
		return fmt.Errorf("%s: %w: empty email", op, ErrMalformed)
	}

	expiry := export.HumanDate(msg.ExpiryDate)
	if expiry == "" {
		expiry = "soon"
	}
	subject := fmt.Sprintf("Your %s subscription expires %s", msg.SubscriptionType, expiry)
	text := fmt.Sprintf("Dear %s,\r\n\r\n"+
		"Your %s subscription at %s expires on %s.\r\n"+
		"Renew it at your next visit to keep enjoying our services.\r\n",
		msg.Name, msg.SubscriptionType, s.appName, expiry)

	err := s.sendEmail([]string{msg.Email}, subject, text)
	s.observe(KindRenewal, err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) observe(kind string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveNotification(kind, err)
	}
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.Sender()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Debug("smtp client close", sl.Err(err))
		}
	}()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
