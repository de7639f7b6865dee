package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/miktos/nexus-dispatch/pkg/db"
	"github.com/miktos/nexus-dispatch/pkg/matcher"
	"github.com/miktos/nexus-dispatch/pkg/skill"
)

// homePageTemplate is the HTML for the dispatcher home page (white bg, black/blue text).
const homePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Nexus Dispatch</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    a { color: #0066cc; }
    h1, h2, h3 { color: #0066cc; }
    .status-healthy { color: #0066cc; font-weight: bold; }
    .status-unhealthy { color: #cc0000; font-weight: bold; }
    table { border-collapse: collapse; width: 100%; max-width: 1000px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; }
    th { background: #f0f4f8; color: #0066cc; }
    .stat { font-weight: bold; color: #0066cc; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 1rem; }
    section { margin-bottom: 2rem; }
    .error { color: #cc0000; }
    .ok { color: #0066cc; }
  </style>
</head>
<body>
  <h1>Nexus Dispatch</h1>
  <p class="meta">Skill dispatcher health, registered skills, and match rules.</p>

  <section>
    <h2>Health</h2>
    <p>Status: <span class="status-{{.Health.Status}}">{{.Health.Status}}</span></p>
    <p>COMMS: {{if .Health.Checks.COMMS}}<span class="ok">OK</span>{{else}}<span class="error">Failed</span>{{end}}</p>
    {{if .Health.DatabaseChecked}}<p>Database: {{if .Health.DatabaseOK}}<span class="ok">OK</span>{{else}}<span class="error">Failed</span>{{end}}</p>{{end}}
    <p>Timestamp: {{.Health.Timestamp}}</p>
  </section>

  <section>
    <h2>Skills</h2>
    <p>Registered skills: <span class="stat">{{len .Skills}}</span></p>
    <table>
      <thead>
        <tr><th>Skill</th><th>Category</th><th>Parameters</th><th>Description</th></tr>
      </thead>
      <tbody>
        {{range .Skills}}
        <tr>
          <td><a href="/skill/{{.Name}}">{{.Name}}</a></td>
          <td>{{.Category}}</td>
          <td>{{len .Params}}</td>
          <td>{{.Description}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </section>

  <section>
    <h2>Match rules</h2>
    <p>Active rules: <span class="stat">{{len .Rules}}</span></p>
    <table>
      <thead>
        <tr><th>Rule</th><th>Skill</th><th>Confidence</th><th>Priority</th><th>Phrases</th><th>Keywords</th></tr>
      </thead>
      <tbody>
        {{range .Rules}}
        <tr>
          <td>{{.Name}}</td>
          <td><a href="/skill/{{.Skill}}">{{.Skill}}</a></td>
          <td>{{printf "%.2f" .Confidence}}</td>
          <td>{{.Priority}}</td>
          <td>{{len .Phrases}}</td>
          <td>{{len .Keywords}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </section>

  <section>
    <h2>Recent dispatches</h2>
    {{if not .AuditEnabled}}
    <p class="meta">Audit log disabled (DATABASE_URL not set).</p>
    {{else if .RecentError}}
    <p class="error">Could not load audit log: {{.RecentError}}</p>
    {{else}}
    <p>Success: <span class="stat">{{.Counts.Success}}</span> · Error: <span class="stat">{{.Counts.Error}}</span></p>
    {{if not .Recent}}
    <p>No dispatches recorded yet.</p>
    {{else}}
    <table>
      <thead>
        <tr><th>Time</th><th>Command</th><th>Skill</th><th>Status</th><th>Confidence</th><th>Error</th><th>Duration (s)</th></tr>
      </thead>
      <tbody>
        {{range .Recent}}
        <tr>
          <td>{{.Created.Format "2006-01-02 15:04:05"}}</td>
          <td>{{.Command}}</td>
          <td>{{if .Skill}}{{.Skill}}{{end}}</td>
          <td>{{.Status}}</td>
          <td>{{printf "%.2f" .Confidence}}</td>
          <td>{{if .ErrorKind}}<span class="error">{{.ErrorKind}}</span>{{end}}</td>
          <td>{{printf "%.4f" .ExecutionTime}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    {{end}}
    {{end}}
  </section>
</body>
</html>
`

// skillDetailPageTemplate is the HTML for a single skill's schema page.
const skillDetailPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Spec.Name}} – Nexus Dispatch</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    a { color: #0066cc; }
    h1, h2, h3 { color: #0066cc; }
    table { border-collapse: collapse; width: 100%; max-width: 1000px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; vertical-align: top; }
    th { background: #f0f4f8; color: #0066cc; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 0.5rem; }
    section { margin-bottom: 2rem; }
    pre { background: #f5f5f5; padding: 0.75rem; overflow-x: auto; font-size: 0.85rem; margin: 0.25rem 0; border: 1px solid #eee; }
    .back { margin-bottom: 1rem; }
  </style>
</head>
<body>
  <p class="back"><a href="/">← Back to dispatcher</a></p>
  <h1>{{.Spec.Name}}</h1>
  {{if .Spec.Description}}<p class="meta">{{.Spec.Description}}</p>{{end}}
  {{if .Spec.Category}}<p class="meta">Category: {{.Spec.Category}}</p>{{end}}

  <section>
    <h2>Parameters</h2>
    {{if not .Spec.Params}}
    <p>No parameters declared.</p>
    {{else}}
    <table>
      <thead>
        <tr><th>Name</th><th>Type</th><th>Required</th><th>Default</th><th>Constraints</th><th>Description</th></tr>
      </thead>
      <tbody>
        {{range .Spec.Params}}
        <tr>
          <td>{{.Name}}</td>
          <td>{{.Type}}</td>
          <td>{{if .Required}}yes{{else}}no{{end}}</td>
          <td>{{if .Default}}{{json .Default}}{{end}}</td>
          <td>{{constraints .}}</td>
          <td>{{.Description}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    {{end}}
  </section>

  {{if .Rules}}
  <section>
    <h2>Triggered by rules</h2>
    <table>
      <thead>
        <tr><th>Rule</th><th>Confidence</th><th>Phrases</th><th>Keywords</th><th>Params</th></tr>
      </thead>
      <tbody>
        {{range .Rules}}
        <tr>
          <td>{{.Name}}</td>
          <td>{{printf "%.2f" .Confidence}}</td>
          <td>{{range .Phrases}}"{{.}}" {{end}}</td>
          <td>{{range .Keywords}}{{.}} {{end}}</td>
          <td>{{if .Params}}<pre>{{json .Params}}</pre>{{end}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </section>
  {{end}}
</body>
</html>
`

// homeData is the data passed to the home page template.
type homeData struct {
	Health       *healthOutput
	Skills       []*skill.SkillSpec
	Rules        []matcher.Rule
	AuditEnabled bool
	Recent       []db.DispatchRecord
	Counts       *db.StatusCounts
	RecentError  string
}

// handleHome returns an HTTP handler for the dispatcher home page.
func (s *Server) handleHome() http.HandlerFunc {
	tmpl := template.Must(template.New("home").Parse(homePageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.HealthCheckTimeout)
		defer cancel()

		data := homeData{
			Health: s.health(ctx),
			Skills: s.registry.List(),
			Rules:  s.matcher.Rules(),
		}

		if s.repo != nil {
			data.AuditEnabled = true
			recent, err := s.repo.ListRecent(ctx, 25)
			if err != nil {
				data.RecentError = err.Error()
			} else {
				data.Recent = recent
			}
			if counts, err := s.repo.CountByStatus(ctx); err == nil {
				data.Counts = counts
			} else if data.RecentError == "" {
				data.RecentError = err.Error()
			}
			if data.Counts == nil {
				data.Counts = &db.StatusCounts{}
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error(fmt.Sprintf("%s - home template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

// skillDetailData is the data passed to the skill detail page template.
type skillDetailData struct {
	Spec  *skill.SkillSpec
	Rules []matcher.Rule
}

// handleSkillDetail returns an HTTP handler for a single skill's schema page.
func (s *Server) handleSkillDetail() http.HandlerFunc {
	tmpl := template.Must(template.New("skillDetail").Funcs(template.FuncMap{
		"json": func(v any) string {
			if v == nil {
				return ""
			}
			b, err := json.Marshal(v)
			if err != nil {
				return fmt.Sprintf("%v", v)
			}
			return string(b)
		},
		"constraints": describeConstraints,
	}).Parse(skillDetailPageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/skill/")
		if name == "" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		name, err := url.PathUnescape(name)
		if err != nil || strings.Contains(name, "/") {
			http.NotFound(w, r)
			return
		}

		spec, err := s.registry.Resolve(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		data := skillDetailData{Spec: spec}
		for _, rule := range s.matcher.Rules() {
			if rule.Skill == spec.Name {
				data.Rules = append(data.Rules, rule)
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error(fmt.Sprintf("%s - skill detail template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

// describeConstraints renders a ParamSpec's value constraints for the detail page.
func describeConstraints(p skill.ParamSpec) string {
	var parts []string
	if len(p.Allowed) > 0 {
		parts = append(parts, "one of "+strings.Join(p.Allowed, ", "))
	}
	if p.Min != nil {
		op := ">="
		if p.ExclusiveMin {
			op = ">"
		}
		parts = append(parts, fmt.Sprintf("%s %g", op, *p.Min))
	}
	if p.Max != nil {
		parts = append(parts, fmt.Sprintf("<= %g", *p.Max))
	}
	if p.NonEmpty {
		parts = append(parts, "non-empty")
	}
	return strings.Join(parts, ", ")
}
