package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"adjja/internal/adapters/email"
)

// ActivationEmailInput carries input for the activation email orchestrator.
type ActivationEmailInput struct {
	To          string
	DisplayName string
	From        string
	ReplyTo     string
	PortalURL   string
	Token       string
}

// ActivationEmailDeps holds dependencies for the activation email.
type ActivationEmailDeps struct {
	Sender email.Sender
}

// ExecuteSendActivationEmail sends the invitation email with the activation
// link. Like the welcome email, failure is logged and returned but the
// invitation itself already stands.
// PRE: input.Token was issued by ExecuteInviteAccount
// POST: Email queued with the provider, or error returned
func ExecuteSendActivationEmail(ctx context.Context, input ActivationEmailInput, deps ActivationEmailDeps) error {
	name := input.DisplayName
	if name == "" {
		name = "there"
	}
	link := fmt.Sprintf("%s/activate?token=%s", input.PortalURL, input.Token)

	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>You have been invited to the ADJJA portal. <a href=%q>Choose your password</a> to activate your account. The link is valid for 3 days.</p>",
		html.EscapeString(name), link,
	)

	_, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{input.To},
		From:    input.From,
		ReplyTo: input.ReplyTo,
		Subject: "Activate your ADJJA portal account",
		HTML:    body,
	})
	if err != nil {
		slog.Warn("email_event", "event", "activation_send_failed", "to", input.To, "error", err.Error())
		return err
	}

	slog.Info("email_event", "event", "activation_sent", "to", input.To)
	return nil
}
