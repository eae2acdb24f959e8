package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"campus-messages/internal/service"
	"campus-messages/internal/storage"
	"campus-messages/internal/storage/zapadapter"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

const (
	bodyUserNotFound = "User not found"
	bodyRegisterErr  = "An error occurred while registering"
	bodySendErr      = "An error occurred while sending the message"
)

type userService interface {
	Register(ctx context.Context, name, role string) (storage.User, error)
	Login(ctx context.Context, id int64) (storage.User, error)
}

type messageService interface {
	Send(ctx context.Context, sender, receiver int64, content string) (storage.Message, error)
	Inbox(ctx context.Context, user int64) (service.Inbox, error)
}

type handler struct {
	logger   *zap.SugaredLogger
	users    userService
	messages messageService
}

// messageRow is a message as shown in the inbox page, Peer is the other side of the conversation
type messageRow struct {
	ID        int64
	Peer      int64
	Content   string
	Timestamp string
}

type inboxPage struct {
	User             storage.User
	ReceivedMessages []messageRow
	SentMessages     []messageRow
}

// render executes the template into a buffer first so a failing template does not leave a half written page
func (h *handler) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		zapadapter.WithRequestID(r.Context(), h.logger).Errorf("rendering %s: %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		zapadapter.WithRequestID(r.Context(), h.logger).Errorf("writing rendered page to ResponseWriter: %v", err)
	}
}

// loginForm handles GET requests on "/login" endpoint
func (h *handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", nil)
}

// login handles POST requests on "/login" endpoint
func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PostFormValue("user_id"))
	if err != nil {
		zapadapter.WithRequestID(r.Context(), h.logger).Errorf("User with user_id: %q not found", r.PostFormValue("user_id"))
		http.Error(w, bodyUserNotFound, http.StatusNotFound)
		return
	}

	u, err := h.users.Login(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, bodyUserNotFound, http.StatusNotFound)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, inboxPath(u.ID), http.StatusSeeOther)
}

// registerForm handles GET requests on "/register" endpoint
func (h *handler) registerForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", struct{ Roles []storage.Role }{storage.Roles})
}

// register handles POST requests on "/register" endpoint
func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	_, err := h.users.Register(r.Context(), r.PostFormValue("name"), r.PostFormValue("role"))
	if err != nil {
		http.Error(w, bodyRegisterErr, http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// sendMessage handles POST requests on "/send_message" endpoint
func (h *handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	logger := zapadapter.WithRequestID(r.Context(), h.logger)

	sender, err := parseID(r.PostFormValue("sender_id"))
	if err != nil {
		logger.Errorf("Error sending message: bad sender_id %q", r.PostFormValue("sender_id"))
		http.Error(w, bodySendErr, http.StatusInternalServerError)
		return
	}

	receiver, err := parseID(r.PostFormValue("receiver_id"))
	if err != nil {
		logger.Errorf("Error sending message: bad receiver_id %q", r.PostFormValue("receiver_id"))
		http.Error(w, bodySendErr, http.StatusInternalServerError)
		return
	}

	if _, err := h.messages.Send(r.Context(), sender, receiver, r.PostFormValue("content")); err != nil {
		http.Error(w, bodySendErr, http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, inboxPath(sender), http.StatusSeeOther)
}

// inbox handles GET requests on "/inbox/{user_id}" endpoint
func (h *handler) inbox(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "user_id"))
	if err != nil {
		http.Error(w, bodyUserNotFound, http.StatusNotFound)
		return
	}

	inbox, err := h.messages.Inbox(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, bodyUserNotFound, http.StatusNotFound)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.render(w, r, "inbox.html", inboxPage{
		User: inbox.User,
		ReceivedMessages: lo.Map(inbox.Received, func(m storage.Message, _ int) messageRow {
			return newMessageRow(m, m.SenderID)
		}),
		SentMessages: lo.Map(inbox.Sent, func(m storage.Message, _ int) messageRow {
			return newMessageRow(m, m.ReceiverID)
		}),
	})
}

func newMessageRow(m storage.Message, peer int64) messageRow {
	return messageRow{
		ID:        m.ID,
		Peer:      peer,
		Content:   m.Content,
		Timestamp: m.Timestamp.Format(time.RFC3339),
	}
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func inboxPath(id int64) string {
	return "/inbox/" + strconv.FormatInt(id, 10)
}
