/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexandremahdhaoui/chterm/internal/controller"
	"github.com/alexandremahdhaoui/chterm/internal/types"
	"github.com/alexandremahdhaoui/chterm/pkg/vmconfig"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
)

const (
	// DefaultStreamInterval is the console polling period of a stream.
	DefaultStreamInterval = 100 * time.Millisecond

	maxRequestBody = 1 << 20
)

var ErrDecodeRequest = errors.New("decoding request body")

// Options configures the HTTP server.
type Options struct {
	// AdminUsers may look up the sessions of every owner.
	AdminUsers []string
	// StreamInterval is the console polling period of a websocket stream.
	StreamInterval time.Duration
	// OriginPatterns are the hosts allowed to open a websocket stream from a browser.
	OriginPatterns []string
}

// New returns the HTTP handler exposing terminal.
func New(terminal controller.Terminal, log logr.Logger, opts Options) http.Handler {
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = DefaultStreamInterval
	}

	s := &server{
		terminal: terminal,
		opts:     opts,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(ClientIPMiddleware)
	r.Use(OwnerMiddleware(opts.AdminUsers))
	r.Use(LoggingMiddleware(log))

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getStatus)
			r.Delete("/", s.closeSession)
			r.Post("/input", s.writeInput)
			r.Get("/output", s.readOutput)
			r.Post("/resize", s.resize)
			r.Get("/screen", s.getScreen)
			r.Get("/stream", s.stream)
		})
	})

	return r
}

type server struct {
	terminal controller.Terminal
	opts     Options
}

// ----------------------------------------------------- PAYLOADS --------------------------------------------------- //

// Result is embedded in every response body.
type Result struct {
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
	Kind    types.Kind `json:"kind,omitempty"`
}

type CreateResponse struct {
	Result
	types.CreateResult
}

type ListResponse struct {
	Result
	Sessions []types.SessionSummary `json:"sessions"`
}

type StatusResponse struct {
	Result
	Status *types.SessionStatus `json:"status,omitempty"`
}

type OutputResponse struct {
	Result
	Output string `json:"output"`
}

type ScreenResponse struct {
	Result
	Content string `json:"content"`
}

type InputRequest struct {
	Data string `json:"data"`
}

type ResizeRequest struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

var okResult = Result{Success: true}

// ----------------------------------------------------- HANDLERS --------------------------------------------------- //

func (s *server) createSession(w http.ResponseWriter, r *http.Request) {
	var recipe vmconfig.Recipe
	if err := decode(r, &recipe); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	res, err := s.terminal.Create(r.Context(), recipe, GetOwner(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CreateResponse{Result: okResult, CreateResult: res})
}

func (s *server) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.terminal.List(r.Context(), GetScope(r.Context()))
	if sessions == nil {
		sessions = []types.SessionSummary{}
	}

	writeJSON(w, http.StatusOK, ListResponse{Result: okResult, Sessions: sessions})
}

func (s *server) getStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.terminal.GetStatus(r.Context(), chi.URLParam(r, "id"), GetScope(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Result: okResult, Status: &status})
}

func (s *server) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := s.terminal.Close(r.Context(), chi.URLParam(r, "id"), GetScope(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, okResult)
}

func (s *server) writeInput(w http.ResponseWriter, r *http.Request) {
	var req InputRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	if err := s.terminal.Write(r.Context(), chi.URLParam(r, "id"), req.Data, GetScope(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, okResult)
}

func (s *server) readOutput(w http.ResponseWriter, r *http.Request) {
	out, err := s.terminal.Read(r.Context(), chi.URLParam(r, "id"), GetScope(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, OutputResponse{Result: okResult, Output: out})
}

func (s *server) resize(w http.ResponseWriter, r *http.Request) {
	var req ResizeRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	err := s.terminal.Resize(r.Context(), chi.URLParam(r, "id"), req.Rows, req.Cols, GetScope(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, okResult)
}

func (s *server) getScreen(w http.ResponseWriter, r *http.Request) {
	content, err := s.terminal.GetScreenContent(r.Context(), chi.URLParam(r, "id"), GetScope(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ScreenResponse{Result: okResult, Content: content})
}

// ----------------------------------------------------- HELPERS ---------------------------------------------------- //

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrDecodeRequest, err)
	}

	return nil
}

// StatusCode maps an error kind to its HTTP status.
func StatusCode(kind types.Kind) int {
	switch kind {
	case types.KindNotFound:
		return http.StatusNotFound
	case types.KindProcessStopped, types.KindChannelClosed:
		return http.StatusConflict
	case types.KindInvalidRecipe, types.KindBadRequest:
		return http.StatusBadRequest
	case types.KindBootFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	writeResult(w, r, types.KindBadRequest, err)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeResult(w, r, types.ErrorKind(err), err)
}

func writeResult(w http.ResponseWriter, r *http.Request, kind types.Kind, err error) {
	code := StatusCode(kind)
	if code >= http.StatusInternalServerError {
		logr.FromContextOrDiscard(r.Context()).Error(err, "request failed", "kind", kind)
	}

	writeJSON(w, code, Result{Success: false, Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
