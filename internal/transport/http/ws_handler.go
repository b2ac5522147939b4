package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"classquiz-service/internal/app"

	"github.com/gorilla/websocket"
)

// WSHandler runs one quiz attempt per connection: the student starts a quiz
// by connecting, answers over the socket, and the server drives the shared
// countdown.
type WSHandler struct {
	sessions *app.SessionService
	upgrader websocket.Upgrader
}

func NewWSHandler(sessions *app.SessionService) *WSHandler {
	return &WSHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type optionPayload struct {
	Option int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type startedPayload struct {
	SessionID      string `json:"sessionId"`
	QuizID         string `json:"quizId"`
	TotalQuestions int    `json:"totalQuestions"`
	TimeLimit      int    `json:"timeLimit"`
}

type feedbackPayload struct {
	QuestionIndex int  `json:"questionIndex"`
	Correct       bool `json:"correct"`
	CorrectOption int  `json:"correctOption"`
	Awarded       int  `json:"awarded"`
	Score         int  `json:"score"`
	Remaining     int  `json:"remaining"`
}

type tickPayload struct {
	Remaining int `json:"remaining"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and wires the connection into the session use
// cases. Query parameters: quizId, student, and optionally questions (subset
// size when the quiz is longer than the student wants).
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	student := r.URL.Query().Get("student")
	if quizID == "" || student == "" {
		http.Error(w, "missing quizId or student", http.StatusBadRequest)
		return
	}
	questionCount, _ := strconv.Atoi(r.URL.Query().Get("questions"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.sessions.Start(r.Context(), quizID, student, questionCount)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	sessionID := session.ID()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// The countdown is server-driven: one goroutine consumes the shared
	// budget while the read loop below handles student input. Session state
	// is serialized by the session's own mutex.
	go func() {
		defer close(tickerDone)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			<-closeSignals
			cancel()
		}()
		app.RunTicker(ctx, app.TickInterval, func() bool {
			remaining, expired, result, err := h.sessions.Tick(ctx, sessionID)
			if err != nil {
				// Session finished or was discarded by the read loop.
				return true
			}
			if expired {
				h.trySend(send, closeSignals, outboundMessage[any]{Type: "finished", Payload: result})
				return true
			}
			h.trySend(send, closeSignals, outboundMessage[any]{Type: "tick", Payload: tickPayload{Remaining: remaining}})
			return false
		})
	}()

	send <- outboundMessage[any]{Type: "started", Payload: startedPayload{
		SessionID:      sessionID,
		QuizID:         quizID,
		TotalQuestions: session.Snapshot().TotalQuestions,
		TimeLimit:      session.Budget(),
	}}
	if view, ok := session.CurrentQuestion(); ok {
		send <- outboundMessage[any]{Type: "question", Payload: view}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "select":
			var payload optionPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid select payload"}}
				continue
			}
			if err := h.sessions.Select(sessionID, payload.Option); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "answer":
			var payload optionPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			record, view, err := h.sessions.Submit(sessionID, payload.Option)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "feedback", Payload: feedbackPayload{
				QuestionIndex: record.QuestionIndex,
				Correct:       record.Correct,
				CorrectOption: record.CorrectOption,
				Awarded:       record.PointsAwarded,
				Score:         view.Score,
				Remaining:     view.Remaining,
			}}
		case "advance":
			finished, result, err := h.sessions.Advance(r.Context(), sessionID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			if finished {
				send <- outboundMessage[any]{Type: "finished", Payload: result}
				continue
			}
			if view, ok := session.CurrentQuestion(); ok {
				send <- outboundMessage[any]{Type: "question", Payload: view}
			}
		case "exit":
			h.sessions.Exit(sessionID)
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	// A dropped connection discards any unfinished attempt; partial results
	// are never persisted.
	h.sessions.Exit(sessionID)

	close(closeSignals)
	<-tickerDone
	close(send)
	<-writerDone
}

func (h *WSHandler) trySend(send chan<- outboundMessage[any], closeSignals <-chan struct{}, msg outboundMessage[any]) {
	select {
	case send <- msg:
	case <-closeSignals:
	}
}
