// Package httpapi exposes the game and the model proxy over HTTP.
package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/pkarhu/deduction-api/internal/domain"
	"github.com/pkarhu/deduction-api/internal/llm"
	"github.com/pkarhu/deduction-api/internal/obslog"
	"github.com/pkarhu/deduction-api/internal/session"
	"github.com/pkarhu/deduction-api/pkg/gamedto"
)

// Each streamed chunk is terminated by an ASCII record separator so clients
// can split frames without buffering whole lines.
const streamDelimiter = "\x1e"

const maxNameLen = 50

type Config struct {
	AllowOrigin string
	Models      gamedto.ModelsResponse
}

type Server struct {
	sessions *session.Manager
	streamer llm.Streamer
	cfg      Config
	srv      *fasthttp.Server
}

func NewServer(sessions *session.Manager, streamer llm.Streamer, cfg Config) *Server {
	s := &Server{sessions: sessions, streamer: streamer, cfg: cfg}
	s.srv = &fasthttp.Server{
		Handler: s.Handler,
		Name:    "deduction-api",
	}
	return s
}

func (s *Server) ListenAndServe(addr string) error {
	return s.srv.ListenAndServe(addr)
}

// Serve accepts connections from ln; tests pass an in-memory listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

func (s *Server) Shutdown() error {
	return s.srv.Shutdown()
}

func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	s.applyCORS(ctx)
	method := string(ctx.Method())
	if method == fasthttp.MethodOptions {
		ctx.SetStatusCode(fasthttp.StatusNoContent)
		return
	}

	switch string(ctx.Path()) {
	case "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	case "/join":
		s.requirePost(ctx, method, s.handleJoin)
	case "/attempt":
		s.requirePost(ctx, method, s.handleAttempt)
	case "/model-run":
		s.requirePost(ctx, method, s.handleModelRun)
	case "/models":
		s.handleModels(ctx)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

func (s *Server) requirePost(ctx *fasthttp.RequestCtx, method string, h func(*fasthttp.RequestCtx)) {
	if method != fasthttp.MethodPost {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h(ctx)
}

func (s *Server) applyCORS(ctx *fasthttp.RequestCtx) {
	h := &ctx.Response.Header
	h.Set("Access-Control-Allow-Origin", s.cfg.AllowOrigin)
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func (s *Server) handleJoin(ctx *fasthttp.RequestCtx) {
	var req gamedto.JoinRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLen {
		writeError(ctx, fasthttp.StatusBadRequest, "name must be between 1 and 50 characters")
		return
	}

	jr, err := s.sessions.Join(ctx, name, req.StartNew)
	if err != nil {
		obslog.L().Error("join failed", zap.Error(err))
		writeError(ctx, fasthttp.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, gamedto.JoinResponse{
		User:     toUserDTO(jr.User),
		Question: toQuestionDTO(jr.Question),
	})
}

func (s *Server) handleAttempt(ctx *fasthttp.RequestCtx) {
	var req gamedto.AttemptRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := uuid.Parse(strings.TrimSpace(req.UserID)); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "user_id must be a valid UUID")
		return
	}

	res, err := s.sessions.SubmitAnswer(ctx, strings.TrimSpace(req.UserID), req.Answer)
	if err != nil {
		if errors.Is(err, session.ErrUnknownUser) {
			writeError(ctx, fasthttp.StatusNotFound, "unknown user")
			return
		}
		obslog.L().Error("attempt failed", zap.Error(err))
		writeError(ctx, fasthttp.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, gamedto.AttemptResponse{
		Correct:  res.Correct,
		Victory:  res.Victory,
		Question: toQuestionDTO(res.Question),
		Message:  res.Message,
	})
}

func (s *Server) handleModels(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, s.cfg.Models)
}

func (s *Server) handleModelRun(ctx *fasthttp.RequestCtx) {
	var req gamedto.ModelRunRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}
	if !s.modelAllowed(req.Model) {
		obslog.L().Error("unsupported model requested", zap.String("model", req.Model))
		writeError(ctx, fasthttp.StatusBadRequest, "Unsupported model selected.")
		return
	}

	messages := make([]llm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	model := req.Model
	streamer := s.streamer

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/x-ndjson")
	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		emit := func(v any) bool {
			raw, err := json.Marshal(v)
			if err != nil {
				return false
			}
			if _, err := w.Write(raw); err != nil {
				return false
			}
			if _, err := w.WriteString(streamDelimiter); err != nil {
				return false
			}
			return w.Flush() == nil
		}

		errClientGone := errors.New("client gone")
		err := streamer.StreamChat(context.Background(), model, messages, func(ch llm.Chunk) error {
			if !emit(ch) {
				return errClientGone
			}
			return nil
		})
		if err != nil && !errors.Is(err, errClientGone) {
			obslog.L().Error("llm stream failed", zap.String("model", model), zap.Error(err))
			emit(map[string]string{
				"type":  "error",
				"error": "An internal error occurred while streaming the AI response.",
			})
		}
	})
}

func (s *Server) modelAllowed(model string) bool {
	for _, opt := range s.cfg.Models.Options {
		if opt.Name == model {
			return true
		}
	}
	return false
}

func toUserDTO(u *domain.User) gamedto.User {
	if u == nil {
		return gamedto.User{}
	}
	return gamedto.User{ID: u.ID, Name: u.Name, CurrentStage: u.CurrentStage}
}

func toQuestionDTO(q *domain.Question) *gamedto.Question {
	if q == nil {
		return nil
	}
	return &gamedto.Question{ID: q.ID, Stage: q.Stage, Prompt: q.Prompt}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(raw)
}

func writeError(ctx *fasthttp.RequestCtx, status int, detail string) {
	writeJSON(ctx, status, gamedto.ErrorResponse{Detail: detail})
}
