package rpc

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/chronokings/huntercoin-sub000/internal/logger"
)

// request is the JSON body every command is sent as: a Bitcoin-style
// JSON-RPC 1.0 envelope (spec §6: "Each returns JSON").
type request struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
	ID     interface{}   `json:"id"`
}

// response is the JSON body every command answers with; exactly one of
// Result/Error is set, matching the request's id.
type response struct {
	Result interface{} `json:"result"`
	Error  *rpcError   `json:"error"`
	ID     interface{} `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server answers RPC requests over HTTP, routed through a single endpoint
// the way the original's JSON-RPC listener does (spec §10.1's RPC
// component, grounded on the teacher's gorilla/mux-based API server).
type Server struct {
	ctx        *Context
	httpServer *http.Server
}

// NewServer returns a Server bound to addr, ready for Start.
func NewServer(addr string, ctx *Context) *Server {
	router := mux.NewRouter()
	s := &Server{ctx: ctx}
	router.HandleFunc("/", s.handleRequest).Methods(http.MethodPost)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins serving in the background; it returns once the listener is
// up or immediately fails.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.RPC.Error().Err(err).Msg("rpc server stopped")
		}
	}()
	logger.RPC.Info().Str("addr", s.httpServer.Addr).Msg("rpc server listening")
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, response{Error: &rpcError{Code: http.StatusBadRequest, Message: "malformed JSON-RPC request"}})
		return
	}

	if !s.ctx.isWarmedUp() {
		writeResponse(w, response{ID: req.ID, Error: &rpcError{Code: errWarmup.Code, Message: errWarmup.Message}})
		return
	}

	handler, ok := handlers[req.Method]
	if !ok {
		writeResponse(w, response{ID: req.ID, Error: &rpcError{Code: http.StatusNotFound, Message: errUnknownMethod.Error()}})
		return
	}

	result, hErr := handler(s.ctx, req.Params)
	if hErr != nil {
		logger.RPC.Debug().Str("method", req.Method).Str("error", hErr.Message).Msg("rpc command failed")
		writeResponse(w, response{ID: req.ID, Error: &rpcError{Code: hErr.Code, Message: hErr.Message}})
		return
	}
	writeResponse(w, response{ID: req.ID, Result: result})
}

func writeResponse(w http.ResponseWriter, resp response) {
	w.Header().Set("Content-Type", "application/json")
	if resp.Error != nil {
		w.WriteHeader(resp.Error.Code)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.RPC.Error().Err(err).Msg("failed to encode rpc response")
	}
}
