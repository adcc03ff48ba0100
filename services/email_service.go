package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/LettersBlue/african-nations-league-sub000/config"
	"github.com/LettersBlue/african-nations-league-sub000/models"
	"github.com/LettersBlue/african-nations-league-sub000/repositories"
)

var completionTemplate = template.Must(template.New("tournament_completed").Parse(`
<h2>{{.TournamentName}} has finished!</h2>
<p><b>{{.WinnerCountry}}</b> are the champions, beating {{.RunnerUpCountry}} in the final.</p>
<p>Thank you for taking part in the African Nations League.</p>
`))

// EmailService отправляет уведомления представителям федераций. Реализует
// ResultMailer.
type EmailService struct {
	cfg      *config.Config
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewEmailService(cfg *config.Config, userRepo repositories.UserRepository, logger *slog.Logger) *EmailService {
	return &EmailService{cfg: cfg, userRepo: userRepo, logger: logger}
}

// SendTournamentCompleted рассылает итог турнира всем представителям.
func (s *EmailService) SendTournamentCompleted(ctx context.Context, tournament *models.Tournament, winner, runnerUp *models.Team) error {
	users, err := s.userRepo.ListByRole(ctx, models.RoleRepresentative)
	if err != nil {
		return fmt.Errorf("failed to list recipients: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	data := struct {
		TournamentName  string
		WinnerCountry   string
		RunnerUpCountry string
	}{
		TournamentName:  tournament.Name,
		WinnerCountry:   winner.Country,
		RunnerUpCountry: runnerUp.Country,
	}

	var body bytes.Buffer
	if err := completionTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render completion email: %w", err)
	}

	subject := fmt.Sprintf("%s: %s are champions!", tournament.Name, winner.Country)
	to := make([]string, 0, len(users))
	for _, u := range users {
		to = append(to, u.Email)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.send(to, subject, body.String())
}

func (s *EmailService) send(to []string, subject, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Прямое TLS-соединение (порт 465)
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial failed: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("smtp client failed: %w", err)
		}
	} else {
		// STARTTLS (порт 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial failed: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls failed: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp MAIL FROM failed: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO %s failed: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("smtp message write failed: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("smtp DATA close failed: %w", err)
	}

	s.logger.Info("tournament completion email sent", slog.Int("recipients", len(to)))
	return nil
}
