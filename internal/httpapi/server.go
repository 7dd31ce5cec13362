// Package httpapi exposes the session engine over HTTP polling endpoints.
// Transport only: every rule lives in the session and game packages.
package httpapi

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/roomplay/internal/game"
	"github.com/park285/roomplay/internal/msgcat"
	"github.com/park285/roomplay/internal/obslog"
	"github.com/park285/roomplay/internal/session"
	"github.com/park285/roomplay/internal/store"
)

type Server struct {
	mgr      *session.Manager
	registry *game.Registry
	store    store.Store
	cat      *msgcat.Catalog
	origins  []string
}

func New(mgr *session.Manager, reg *game.Registry, st store.Store, cat *msgcat.Catalog, allowedOrigins []string) *Server {
	return &Server{mgr: mgr, registry: reg, store: st, cat: cat, origins: allowedOrigins}
}

// Handler returns the fasthttp request handler with CORS applied to every
// response and OPTIONS preflight short-circuited.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		s.applyCORS(ctx)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		path := string(ctx.Path())
		switch {
		case path == "/" && ctx.IsGet():
			s.handleHome(ctx)
		case path == "/test" && ctx.IsGet():
			s.handleSelfTest(ctx)
		case path == "/create_game" && ctx.IsPost():
			s.handleCreateGame(ctx)
		case path == "/join_game" && ctx.IsPost():
			s.handleJoinGame(ctx)
		case strings.HasPrefix(path, "/game_state/") && ctx.IsGet():
			s.handleGameState(ctx, strings.TrimPrefix(path, "/game_state/"))
		case path == "/make_move" && ctx.IsPost():
			s.handleMakeMove(ctx)
		case path == "/send_message" && ctx.IsPost():
			s.handleSendMessage(ctx)
		case strings.HasPrefix(path, "/get_messages/") && ctx.IsGet():
			s.handleGetMessages(ctx, strings.TrimPrefix(path, "/get_messages/"))
		default:
			writeJSON(ctx, fasthttp.StatusNotFound, map[string]string{"error": "not found"})
		}
	}
}

func (s *Server) handleHome(ctx *fasthttp.RequestCtx) {
	if err := s.store.Ping(ctx); err != nil {
		writeJSON(ctx, fasthttp.StatusOK, map[string]any{
			"message": s.cat.Text("error.storage"),
			"status":  "error",
			"error":   err.Error(),
		})
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"message": s.cat.Text("status.running"),
		"status":  "success",
	})
}

// handleSelfTest exercises the registry for every registered game type.
func (s *Server) handleSelfTest(ctx *fasthttp.RequestCtx) {
	for _, gt := range s.registry.Types() {
		if _, err := s.registry.Create(gt); err != nil {
			writeJSON(ctx, fasthttp.StatusOK, map[string]any{
				"message": s.cat.Text("status.selftest_failed"),
				"status":  "partial",
				"error":   err.Error(),
			})
			return
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"message": s.cat.Text("status.selftest_ok"),
		"status":  "success",
	})
}

func (s *Server) handleCreateGame(ctx *fasthttp.RequestCtx) {
	var req struct {
		GameType string `json:"game_type"`
	}
	// empty body is fine: default game type
	_ = json.Unmarshal(ctx.PostBody(), &req)
	if strings.TrimSpace(req.GameType) == "" {
		req.GameType = game.TypeTicTacToe
	}

	code, err := s.mgr.CreateSession(ctx, req.GameType)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"code": code})
}

func (s *Server) handleJoinGame(ctx *fasthttp.RequestCtx) {
	var req struct {
		Code   string `json:"code"`
		Player string `json:"player"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Code == "" || req.Player == "" {
		s.writeBadRequest(ctx)
		return
	}

	idx, players, err := s.mgr.JoinSession(ctx, req.Code, req.Player)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"success":      true,
		"player_index": idx,
		"players":      players,
	})
}

func (s *Server) handleGameState(ctx *fasthttp.RequestCtx, code string) {
	st, err := s.mgr.GetState(ctx, code)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"state": st})
}

func (s *Server) handleMakeMove(ctx *fasthttp.RequestCtx) {
	var req struct {
		Code   string `json:"code"`
		Player string `json:"player"`
		Index  *int   `json:"index"`
		Move   string `json:"move"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Code == "" || req.Player == "" {
		s.writeBadRequest(ctx)
		return
	}

	// index for board games, move string otherwise
	var move json.RawMessage
	switch {
	case req.Index != nil:
		move = json.RawMessage(strconv.Itoa(*req.Index))
	case req.Move != "":
		raw, _ := json.Marshal(req.Move)
		move = raw
	default:
		s.writeBadRequest(ctx)
		return
	}

	st, err := s.mgr.ApplyMove(ctx, req.Code, req.Player, move)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"success": true, "state": st})
}

func (s *Server) handleSendMessage(ctx *fasthttp.RequestCtx) {
	var req struct {
		Code    string `json:"code"`
		Player  string `json:"player"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Code == "" || req.Player == "" {
		s.writeBadRequest(ctx)
		return
	}

	if err := s.mgr.AppendMessage(ctx, req.Code, req.Player, req.Message); err != nil {
		s.writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleGetMessages(ctx *fasthttp.RequestCtx, code string) {
	msgs, err := s.mgr.ListMessages(ctx, code)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) applyCORS(ctx *fasthttp.RequestCtx) {
	origin := string(ctx.Request.Header.Peek("Origin"))
	allowed := ""
	for _, o := range s.origins {
		if o == "*" {
			allowed = "*"
			break
		}
		if o == origin {
			allowed = origin
			break
		}
	}
	if allowed == "" {
		return
	}
	h := &ctx.Response.Header
	h.Set("Access-Control-Allow-Origin", allowed)
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	if allowed != "*" {
		h.Set("Vary", "Origin")
	}
}

// writeError maps domain errors onto status codes and catalog strings.
func (s *Server) writeError(ctx *fasthttp.RequestCtx, err error) {
	status := fasthttp.StatusBadRequest
	key := "error.bad_request"
	switch {
	case errors.Is(err, session.ErrNotFound):
		status = fasthttp.StatusNotFound
		key = "error.not_found"
	case errors.Is(err, session.ErrFull):
		key = "error.full"
	case errors.Is(err, session.ErrPlayerUnknown):
		key = "error.player_unknown"
	case errors.Is(err, session.ErrNotYourTurn):
		key = "error.not_your_turn"
	case errors.Is(err, session.ErrInvalidMove):
		key = "error.invalid_move"
	case errors.Is(err, game.ErrUnknownGameType):
		key = "error.unknown_game_type"
	default:
		status = fasthttp.StatusInternalServerError
		key = "error.storage"
		obslog.L().Error("api_storage_error", zap.String("path", string(ctx.Path())), zap.Error(err))
	}
	writeJSON(ctx, status, map[string]string{"error": s.cat.Text(key)})
}

func (s *Server) writeBadRequest(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusBadRequest, map[string]string{"error": s.cat.Text("error.bad_request")})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json; charset=utf-8")
	raw, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"error":"encoding failure"}`)
		return
	}
	ctx.SetBody(raw)
}
