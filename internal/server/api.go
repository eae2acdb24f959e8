package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"campus-messages/internal/service"
	"campus-messages/internal/storage"
	"campus-messages/internal/storage/zapadapter"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fastjson"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type parsers struct {
	createUserPool    fastjson.ParserPool
	loginPool         fastjson.ParserPool
	createMessagePool fastjson.ParserPool
}

type inboxDocument struct {
	User             storage.User      `json:"user"`
	ReceivedMessages []storage.Message `json:"received_messages"`
	SentMessages     []storage.Message `json:"sent_messages"`
}

// apiHandler serves the JSON API, bodies are already validated by enforcePOSTJSON
type apiHandler struct {
	*handler
	parsers parsers
}

// stringField extracts a non-null JSON string field or writes a 400 response
func stringField(w http.ResponseWriter, v *fastjson.Value, name string) (string, bool) {
	if !v.Exists(name) {
		http.Error(w, "Missing Field \""+name+"\"", http.StatusBadRequest)
		return "", false
	}
	b, err := v.Get(name).StringBytes()
	if err != nil {
		http.Error(w, "Field \""+name+"\" must be a string", http.StatusBadRequest)
		return "", false
	}
	return string(b), true
}

// idField extracts a 64-bit integer field or writes a 400 response
func idField(w http.ResponseWriter, v *fastjson.Value, name string) (int64, bool) {
	if !v.Exists(name) {
		http.Error(w, "Missing Field \""+name+"\"", http.StatusBadRequest)
		return 0, false
	}
	id, err := v.Get(name).Int64()
	if err != nil {
		http.Error(w, "Field \""+name+"\" must be a 64-bit integer value", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *apiHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		zapadapter.WithRequestID(r.Context(), h.logger).Error(err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		zapadapter.WithRequestID(r.Context(), h.logger).Errorf("writing marshaled data to ResponseWriter: %v", err)
	}
}

func writeID(w http.ResponseWriter, id int64) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte(`{"id":` + strconv.FormatInt(id, 10) + `}`))
}

// createUser handles HTTP requests on "/api/users" endpoint
func (h *apiHandler) createUser(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	parser := h.parsers.createUserPool.Get()
	defer h.parsers.createUserPool.Put(parser)

	v, err := parser.ParseBytes(body)
	if err != nil {
		http.Error(w, "Malformed JSON", http.StatusBadRequest)
		return
	}

	name, ok := stringField(w, v, "name")
	if !ok {
		return
	}
	role, ok := stringField(w, v, "role")
	if !ok {
		return
	}

	u, err := h.users.Register(r.Context(), name, role)
	if err != nil {
		if service.IsValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeID(w, u.ID)
}

// login handles HTTP requests on "/api/login" endpoint
func (h *apiHandler) login(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	parser := h.parsers.loginPool.Get()
	defer h.parsers.loginPool.Put(parser)

	v, err := parser.ParseBytes(body)
	if err != nil {
		http.Error(w, "Malformed JSON", http.StatusBadRequest)
		return
	}

	id, ok := idField(w, v, "user_id")
	if !ok {
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

	h.writeJSON(w, r, http.StatusOK, u)
}

// createMessage handles HTTP requests on "/api/messages" endpoint
func (h *apiHandler) createMessage(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	parser := h.parsers.createMessagePool.Get()
	defer h.parsers.createMessagePool.Put(parser)

	v, err := parser.ParseBytes(body)
	if err != nil {
		http.Error(w, "Malformed JSON", http.StatusBadRequest)
		return
	}

	sender, ok := idField(w, v, "sender_id")
	if !ok {
		return
	}
	receiver, ok := idField(w, v, "receiver_id")
	if !ok {
		return
	}
	content, ok := stringField(w, v, "content")
	if !ok {
		return
	}

	m, err := h.messages.Send(r.Context(), sender, receiver, content)
	if err != nil {
		switch {
		case service.IsValidation(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrNotFound):
			http.Error(w, "Sender or receiver does not exist", http.StatusNotFound)
		default:
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	writeID(w, m.ID)
}

// inbox handles HTTP requests on "/api/inbox/{user_id}" endpoint
func (h *apiHandler) inbox(w http.ResponseWriter, r *http.Request) {
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

	h.writeJSON(w, r, http.StatusOK, inboxDocument{
		User:             inbox.User,
		ReceivedMessages: inbox.Received,
		SentMessages:     inbox.Sent,
	})
}
