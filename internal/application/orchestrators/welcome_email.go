package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"adjja/internal/adapters/email"
)

// WelcomeEmailInput carries input for the welcome email orchestrator.
type WelcomeEmailInput struct {
	To          string
	DisplayName string
	From        string
	ReplyTo     string
	PortalURL   string
}

// WelcomeEmailDeps holds dependencies for the welcome email.
type WelcomeEmailDeps struct {
	Sender email.Sender
}

// ExecuteSendWelcomeEmail sends the portal welcome email after an account
// is created by a wizard. A send failure is logged and returned, but
// callers treat it as a side effect: the account stands either way.
// PRE: input.To is a valid recipient address
// POST: Email queued with the provider, or error returned
func ExecuteSendWelcomeEmail(ctx context.Context, input WelcomeEmailInput, deps WelcomeEmailDeps) error {
	name := input.DisplayName
	if name == "" {
		name = "there"
	}

	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your ADJJA portal account is ready. Sign in at <a href=%q>%s</a> with your email address.</p><p>See you on the mats!</p>",
		html.EscapeString(name), input.PortalURL, html.EscapeString(input.PortalURL),
	)

	_, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{input.To},
		From:    input.From,
		ReplyTo: input.ReplyTo,
		Subject: "Welcome to the ADJJA portal",
		HTML:    body,
	})
	if err != nil {
		slog.Warn("email_event", "event", "welcome_send_failed", "to", input.To, "error", err.Error())
		return err
	}

	slog.Info("email_event", "event", "welcome_sent", "to", input.To)
	return nil
}
