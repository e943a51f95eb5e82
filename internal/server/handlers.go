package server

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/afgraph/pkg/buildinfo"
	"github.com/matzehuels/afgraph/pkg/control"
	"github.com/matzehuels/afgraph/pkg/errors"
	"github.com/matzehuels/afgraph/pkg/render/sink"
	"github.com/matzehuels/afgraph/pkg/session"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>afgraph</title>
<style>
body { font-family: sans-serif; background: #1e1e1e; color: #ddd; margin: 1.5em; }
form { display: inline-block; margin-right: .5em; }
.problem { color: #e06c75; margin-left: .5em; }
.graph { background: #fff; border-radius: 6px; max-width: 100%; }
table { border-collapse: collapse; margin-top: 1em; }
th, td { border: 1px solid #444; padding: .2em .8em; text-align: left; font-family: monospace; }
</style>
</head>
<body>
<div>
<form method="post" action="/k">
<label>k <input name="k" value="{{.Entry}}" size="4" autocomplete="off"></label>
<span class="problem">{{.Problem}}</span>
</form>
<form method="post" action="/refresh"><button>Show index</button></form>
<form method="post" action="/redraw"><button>Redraw graph</button></form>
</div>
<p><img class="graph" src="/graph.svg?k={{.K}}&amp;n={{.Nodes}}&amp;e={{.Edges}}" alt="sequence graph"></p>
<table>
<tr><th>Key</th><th>Value</th></tr>
{{range .Rows}}<tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
</body>
</html>
`))

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	view := controllerFrom(r.Context()).View()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, view); err != nil {
		s.logger.Warn("render page", "err", err)
	}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := sink.ValidateFormat(format); err != nil {
		s.respondError(w, r, http.StatusNotFound, errors.Wrap(errors.ErrCodeUnsupported, err, "unsupported graph format %q", format))
		return
	}
	ctrl := controllerFrom(r.Context())
	g := ctrl.Graph()
	if g == nil {
		if _, err := ctrl.Dispatch(r.Context(), control.RequestGraphRedraw{}); err != nil {
			s.respondError(w, r, http.StatusBadGateway, err)
			return
		}
		g = ctrl.Graph()
	}

	out, err := sink.Encode(r.Context(), s.renderer, g, format)
	if err != nil {
		s.respondError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	w.Header().Set("Content-Type", sink.ContentType(format))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(out)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, controllerFrom(r.Context()).View())
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, controllerFrom(r.Context()).View().Rows)
}

// outcomeResponse is the JSON answer to POST /k.
type outcomeResponse struct {
	State   string       `json:"state"`
	Reason  string       `json:"reason,omitempty"`
	K       int          `json:"k"`
	Error   string       `json:"error,omitempty"`
	Session session.View `json:"session"`
}

func (s *Server) handleProposeK(w http.ResponseWriter, r *http.Request) {
	raw, err := proposedK(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err)
		return
	}
	ctrl := controllerFrom(r.Context())
	out, _ := ctrl.Dispatch(r.Context(), control.CommitK{Raw: raw})

	resp := outcomeResponse{
		State:   out.State.String(),
		Reason:  string(out.Reason),
		K:       out.K,
		Session: ctrl.View(),
	}
	if out.Err != nil {
		resp.Error = errors.UserMessage(out.Err)
	}
	s.respondDone(w, r, resp)
}

func (s *Server) handleCommand(cmd control.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl := controllerFrom(r.Context())
		if _, err := ctrl.Dispatch(r.Context(), cmd); err != nil {
			s.respondError(w, r, http.StatusBadGateway, err)
			return
		}
		s.respondDone(w, r, ctrl.View())
	}
}

// proposedK reads k from a form field or from a JSON body {"k": ...}. JSON
// strings are unquoted; numbers are passed on as written.
func proposedK(r *http.Request) (string, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return r.FormValue("k"), nil
	}
	var body struct {
		K json.RawMessage `json:"k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	raw := strings.TrimSpace(string(body.K))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(body.K, &s); err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "decode k")
		}
		return s, nil
	}
	if raw == "null" {
		return "", nil
	}
	return raw, nil
}
