package web

import (
	"context"
	"net/http"
	"strings"

	"adjja/internal/application/orchestrators"
)

// handleAccountInvite handles POST /api/accounts/invite (admin only).
// The invitee receives an activation link and picks their own password.
func handleAccountInvite(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var input struct {
		Email       string
		DisplayName string
		Phone       string
		Role        string
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteInviteAccount(r.Context(), orchestrators.InviteAccountInput{
		Email:       strings.TrimSpace(input.Email),
		DisplayName: input.DisplayName,
		Phone:       input.Phone,
		Role:        input.Role,
	}, orchestrators.InviteAccountDeps{AccountStore: stores.AccountStore})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sendActivationEmail(input.Email, input.DisplayName, result.Token)

	writeJSON(w, http.StatusCreated, map[string]any{"AccountID": result.AccountID})
}

// handleActivate handles GET (page) and POST for /activate.
func handleActivate(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		servePage(w, r, "activate.html")
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var token, password, confirm string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Form error", http.StatusBadRequest)
			return
		}
		token = r.FormValue("Token")
		password = r.FormValue("Password")
		confirm = r.FormValue("ConfirmPassword")
	} else {
		var input struct {
			Token           string
			Password        string
			ConfirmPassword string
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		token, password, confirm = input.Token, input.Password, input.ConfirmPassword
	}

	if password != confirm {
		http.Error(w, "Passwords do not match", http.StatusBadRequest)
		return
	}

	_, err := orchestrators.ExecuteActivateAccount(r.Context(), orchestrators.ActivateAccountInput{
		Token:    token,
		Password: password,
	}, orchestrators.ActivateAccountDeps{AccountStore: stores.AccountStore})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sendActivationEmail fires the invitation email. Best effort: the pending
// account stands and an admin can re-invite if delivery fails.
func sendActivationEmail(to, name, token string) {
	if emailSender == nil {
		return
	}
	go func() {
		_ = orchestrators.ExecuteSendActivationEmail(context.Background(), orchestrators.ActivationEmailInput{
			To:          to,
			DisplayName: name,
			From:        emailFromAddress,
			ReplyTo:     emailReplyTo,
			PortalURL:   portalURL,
			Token:       token,
		}, orchestrators.ActivationEmailDeps{Sender: emailSender})
	}()
}
