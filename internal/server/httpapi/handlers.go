package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/messagely/messagely/internal/server/services"
)

// request bodies are capped; message bodies have no schema-level length
// constraint but a transport cap keeps decode bounded.
const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	if _, err := s.users.Register(r.Context(), services.RegisterParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}); err != nil {
		s.storeError(w, r, err)
		return
	}

	// login stamps last_login_at and mints the token
	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request, _ string) {
	all, err := s.users.All(r.Context())
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	out := make([]userSummaryJSON, 0, len(all))
	for _, u := range all {
		out = append(out, toSummaryJSON(*u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

func (s *Server) handleUserDetail(w http.ResponseWriter, r *http.Request, caller string) {
	username := r.PathValue("username")
	if username != caller {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	u, err := s.users.Get(r.Context(), username)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": userDetailJSON{
		userSummaryJSON: userSummaryJSON{
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Phone:     u.Phone,
		},
		JoinAt:      u.JoinAt,
		LastLoginAt: u.LastLoginAt,
	}})
}

func (s *Server) handleMessagesTo(w http.ResponseWriter, r *http.Request, caller string) {
	username := r.PathValue("username")
	if username != caller {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	msgs, err := s.users.MessagesTo(r.Context(), username)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	out := make([]receivedMessageJSON, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, receivedMessageJSON{
			ID:       m.ID,
			Body:     m.Body,
			SentAt:   m.SentAt,
			ReadAt:   m.ReadAt,
			FromUser: toSummaryJSON(m.From),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}

func (s *Server) handleMessagesFrom(w http.ResponseWriter, r *http.Request, caller string) {
	username := r.PathValue("username")
	if username != caller {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	msgs, err := s.users.MessagesFrom(r.Context(), username)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	out := make([]sentMessageJSON, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, sentMessageJSON{
			ID:     m.ID,
			Body:   m.Body,
			SentAt: m.SentAt,
			ReadAt: m.ReadAt,
			ToUser: toSummaryJSON(m.To),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}

func (s *Server) handleMessageCreate(w http.ResponseWriter, r *http.Request, caller string) {
	var req createMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ToUsername == "" {
		writeError(w, http.StatusBadRequest, "to_username required")
		return
	}

	m, err := s.messages.Create(r.Context(), services.CreateParams{
		FromUsername: caller,
		ToUsername:   req.ToUsername,
		Body:         req.Body,
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": messageJSON{
		ID:           m.ID,
		FromUsername: m.FromUsername,
		ToUsername:   m.ToUsername,
		Body:         m.Body,
		SentAt:       m.SentAt,
		ReadAt:       m.ReadAt,
	}})
}

func (s *Server) handleMessageDetail(w http.ResponseWriter, r *http.Request, caller string) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	m, err := s.messages.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	// visible only to the two parties
	if m.From.Username != caller && m.To.Username != caller {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": messageDetailJSON{
		ID:       m.ID,
		Body:     m.Body,
		SentAt:   m.SentAt,
		ReadAt:   m.ReadAt,
		FromUser: toSummaryJSON(m.From),
		ToUser:   toSummaryJSON(m.To),
	}})
}

func (s *Server) handleMessageRead(w http.ResponseWriter, r *http.Request, caller string) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	m, err := s.messages.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	// only the recipient can mark a message read
	if m.To.Username != caller {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := s.messages.MarkRead(r.Context(), id); err != nil {
		s.storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"read": id})
}
