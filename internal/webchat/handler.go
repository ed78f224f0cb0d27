// Package webchat serves the patient-facing chat over WebSocket, with an
// HTTP fallback for clients that cannot hold a socket open.
package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/citasmed/consultorio-backend/internal/assistant"
	"github.com/citasmed/consultorio-backend/internal/observability/metrics"
	"github.com/citasmed/consultorio-backend/pkg/logging"
)

// Responder composes one assistant turn per user message.
type Responder interface {
	Reply(ctx context.Context, transcript []assistant.Turn, input string, existing []assistant.ExistingAppointment) (assistant.Turn, assistant.Intent)
}

// AppointmentSource supplies the current appointment book. It is queried
// fresh on every message so replies never work from a stale copy.
type AppointmentSource interface {
	Existing(ctx context.Context) ([]assistant.ExistingAppointment, error)
}

// Handler manages web chat connections and messages.
type Handler struct {
	responder    Responder
	appointments AppointmentSource
	transcript   *TranscriptStore
	metrics      *metrics.AssistantMetrics
	logger       *logging.Logger
	typingDelay  time.Duration

	mu       sync.RWMutex
	sessions map[string]*session
}

// session holds the dialogue state for one visitor. mu serializes message
// processing so turns append in arrival order; writeMu guards the socket.
type session struct {
	id string

	mu           sync.Mutex
	turns        []assistant.Turn
	pendingReply *assistant.ReplyTimer

	writeMu sync.Mutex
	conn    *websocket.Conn
}

// InboundMessage is what the chat widget sends.
type InboundMessage struct {
	Type      string `json:"type"` // "message", "ping"
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string           `json:"type"` // "message", "typing", "history", "session", "pong", "error"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified message for history responses.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// NewHandler creates a web chat handler. transcript and m may be nil.
func NewHandler(responder Responder, appointments AppointmentSource, transcript *TranscriptStore, m *metrics.AssistantMetrics, typingDelay time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		responder:    responder,
		appointments: appointments,
		transcript:   transcript,
		metrics:      m,
		logger:       logger,
		typingDelay:  typingDelay,
		sessions:     make(map[string]*session),
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	sess := h.getOrCreateSession(r.Context(), sessionID)
	sess.attach(conn)
	h.metrics.SessionOpened()
	defer func() {
		sess.detach(conn)
		h.metrics.SessionClosed()
	}()

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})
	h.replayOrWelcome(r.Context(), sess)

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		h.processMessage(r.Context(), sess, msg.Text)
	}
}

// replayOrWelcome sends stored history to a reconnecting session, or the
// welcome message to a fresh one.
func (h *Handler) replayOrWelcome(ctx context.Context, sess *session) {
	msgs, err := h.transcript.List(ctx, sess.id, 50)
	if err != nil {
		h.logger.Warn("webchat: failed to load history", "error", err, "session_id", sess.id)
	}
	if len(msgs) > 0 {
		history := make([]HistoryMessage, 0, len(msgs))
		for _, m := range msgs {
			history = append(history, HistoryMessage{
				Role:      m.Role,
				Text:      m.Body,
				Timestamp: m.Timestamp.Format(time.RFC3339),
			})
		}
		sess.send(OutboundMessage{Type: "history", Messages: history})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(sess.turns) > 0 {
		history := make([]HistoryMessage, 0, len(sess.turns))
		for _, t := range sess.turns {
			history = append(history, HistoryMessage{Role: string(t.Role), Text: t.Content})
		}
		sess.send(OutboundMessage{Type: "history", Messages: history})
		return
	}

	welcome := assistant.Turn{Role: assistant.RoleAssistant, Content: assistant.WelcomeMessage}
	sess.turns = append(sess.turns, welcome)
	_ = h.transcript.Append(ctx, sess.id, messageFromTurn(welcome))
	sess.send(OutboundMessage{
		Type:      "message",
		Role:      string(welcome.Role),
		Text:      welcome.Content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// processMessage runs the assistant for one inbound message and returns the
// reply turn. The session lock serializes concurrent messages.
func (h *Handler) processMessage(ctx context.Context, sess *session, text string) assistant.Turn {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	prior := make([]assistant.Turn, len(sess.turns))
	copy(prior, sess.turns)

	userTurn := assistant.Turn{Role: assistant.RoleUser, Content: text}
	if err := h.transcript.Append(ctx, sess.id, messageFromTurn(userTurn)); err != nil {
		h.logger.Warn("webchat: failed to store message", "error", err, "session_id", sess.id)
	}

	sess.send(OutboundMessage{Type: "typing"})

	var existing []assistant.ExistingAppointment
	if h.appointments != nil {
		ex, err := h.appointments.Existing(ctx)
		if err != nil {
			h.logger.Warn("webchat: failed to load appointments", "error", err, "session_id", sess.id)
		} else {
			existing = ex
		}
	}

	start := time.Now()
	reply, intent := h.responder.Reply(ctx, prior, text, existing)
	h.metrics.ObserveReply(string(intent), time.Since(start).Seconds())

	sess.turns = append(sess.turns, userTurn, reply)
	if err := h.transcript.Append(ctx, sess.id, messageFromTurn(reply)); err != nil {
		h.logger.Warn("webchat: failed to store reply", "error", err, "session_id", sess.id)
	}

	out := OutboundMessage{
		Type:      "message",
		Role:      string(reply.Role),
		Text:      reply.Content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	sess.pendingReply = assistant.NewReplyTimer(h.typingDelay, func() {
		sess.send(out)
	})

	return reply
}

// HandleMessage is the HTTP fallback for sending messages.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	sess := h.getOrCreateSession(r.Context(), req.SessionID)
	reply := h.processMessage(r.Context(), sess, req.Text)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"session_id": req.SessionID,
		"reply":      reply.Content,
	})
}

// HandleHistory returns chat history for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	msgs, err := h.transcript.List(r.Context(), sessionID, 100)
	if err != nil {
		h.logger.Error("webchat: failed to load history", "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	history := make([]HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, HistoryMessage{
			Role:      m.Role,
			Text:      m.Body,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"messages": history})
}

func (h *Handler) getOrCreateSession(ctx context.Context, sessionID string) *session {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sess, ok := h.sessions[sessionID]; ok {
		return sess
	}

	sess := &session{id: sessionID}
	if msgs, err := h.transcript.List(ctx, sessionID, 0); err == nil {
		for _, m := range msgs {
			sess.turns = append(sess.turns, m.Turn())
		}
	}
	h.sessions[sessionID] = sess
	return sess
}

func (s *session) attach(conn *websocket.Conn) {
	s.writeMu.Lock()
	s.conn = conn
	s.writeMu.Unlock()
}

func (s *session) detach(conn *websocket.Conn) {
	s.writeMu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.writeMu.Unlock()
}

// send writes to the active socket, if any. HTTP-fallback sessions have no
// socket and drop outbound frames.
func (s *session) send(msg OutboundMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.conn == nil {
		return
	}
	_ = websocket.JSON.Send(s.conn, msg)
}

func messageFromTurn(t assistant.Turn) TranscriptMessage {
	return TranscriptMessage{
		Role:               string(t.Role),
		Body:               t.Content,
		Timestamp:          time.Now().UTC(),
		PendingAppointment: t.PendingAppointment,
		AppointmentData:    t.AppointmentData,
	}
}
