// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package editor

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/halo-sigs/plugin-editor-emoji/internal/emoji"
	"github.com/halo-sigs/plugin-editor-emoji/pkg/errutil"
	"github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

const maxInsertBody = 4 << 10

// Source lists the extensions currently contributed to an extension point.
type Source interface {
	Extensions(point plugin.ExtensionPoint) []plugin.Extension
}

// Describer is implemented by extensions that can describe themselves.
type Describer interface {
	Descriptor() Descriptor
}

// Suggester is implemented by extensions that offer suggestions.
type Suggester interface {
	Suggest(query string) Suggestion
	SuggestAll(query string) Suggestion
}

// CommandMenuRunner is implemented by extensions with a command-menu entry.
type CommandMenuRunner interface {
	TriggerCommandMenu() string
}

// API routes.
const (
	routeExtensions  = "GET /apis/editor/v1/extensions"
	routeSuggestions = "GET /apis/editor/v1/extensions/{name}/suggestions"
	routeRender      = "GET /apis/editor/v1/extensions/{name}/render"
	routeCommandMenu = "POST /apis/editor/v1/extensions/{name}/command-menu"
	routeInsert      = "POST /apis/editor/v1/extensions/{name}/insert"
)

// insertRequest is the body of an insert call.
type insertRequest struct {
	Shortcode string `json:"shortcode"`
}

// NewHandler serves the editor extensions contributed to
// plugin.ExtensionPointEditorCreate.
//
//	GET  /apis/editor/v1/extensions
//	GET  /apis/editor/v1/extensions/{name}/suggestions?q=smi&all=true
//	GET  /apis/editor/v1/extensions/{name}/render?text=hello+:wave:
//	POST /apis/editor/v1/extensions/{name}/command-menu
//	POST /apis/editor/v1/extensions/{name}/insert {"shortcode":"tada"}
//
// A command-menu call returns the text the editor inserts and makes the
// next empty-query suggestions call list every emoji until the reset
// delay passes.
func NewHandler(src Source) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(routeExtensions, func(w http.ResponseWriter, _ *http.Request) {
		out := make([]any, 0)
		for _, ext := range src.Extensions(plugin.ExtensionPointEditorCreate) {
			if d, ok := ext.(Describer); ok {
				out = append(out, d.Descriptor())
				continue
			}
			out = append(out, map[string]string{"name": ext.ExtensionName()})
		}
		writeJSON(w, http.StatusOK, out)
	})

	mux.HandleFunc(routeSuggestions, func(w http.ResponseWriter, r *http.Request) {
		ext, ok := find(src, r.PathValue("name"))
		if !ok {
			writeError(w, http.StatusNotFound, "extension not found")
			return
		}
		s, ok := ext.(Suggester)
		if !ok {
			writeError(w, http.StatusNotImplemented, "extension has no suggestions")
			return
		}
		query := r.URL.Query().Get("q")
		all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
		if all {
			writeJSON(w, http.StatusOK, s.SuggestAll(query))
			return
		}
		writeJSON(w, http.StatusOK, s.Suggest(query))
	})

	mux.HandleFunc(routeRender, func(w http.ResponseWriter, r *http.Request) {
		ext, ok := find(src, r.PathValue("name"))
		if !ok {
			writeError(w, http.StatusNotFound, "extension not found")
			return
		}
		e, ok := ext.(*Extension)
		if !ok {
			writeError(w, http.StatusNotImplemented, "extension cannot render")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"text": e.ApplyInputRules(r.URL.Query().Get("text"))})
	})

	mux.HandleFunc(routeCommandMenu, func(w http.ResponseWriter, r *http.Request) {
		ext, ok := find(src, r.PathValue("name"))
		if !ok {
			writeError(w, http.StatusNotFound, "extension not found")
			return
		}
		runner, ok := ext.(CommandMenuRunner)
		if !ok {
			writeError(w, http.StatusNotImplemented, "extension has no command menu")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"text": runner.TriggerCommandMenu()})
	})

	mux.HandleFunc(routeInsert, func(w http.ResponseWriter, r *http.Request) {
		ext, ok := find(src, r.PathValue("name"))
		if !ok {
			writeError(w, http.StatusNotFound, "extension not found")
			return
		}
		e, ok := ext.(*Extension)
		if !ok {
			writeError(w, http.StatusNotImplemented, "extension cannot insert")
			return
		}

		var req insertRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInsertBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		node, err := e.Insert(req.Shortcode)
		if err != nil {
			if errutil.Code(err) == emoji.CodeUnknownEmoji {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, node)
	})

	return mux
}

func find(src Source, name string) (plugin.Extension, bool) {
	for _, ext := range src.Extensions(plugin.ExtensionPointEditorCreate) {
		if ext.ExtensionName() == name {
			return ext, true
		}
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
