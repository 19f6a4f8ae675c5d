package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/kvesta/hostvuln/pkg/finding"
)

var funcs = template.FuncMap{
	"lower": func(s finding.Severity) string {
		return strings.ToLower(string(s))
	},
	"score": func(f float64) string {
		return fmt.Sprintf("%.1f", f)
	},
	"inc": func(i int) int {
		return i + 1
	},
}

var htmlTemplate = template.Must(template.New("report").Funcs(funcs).Parse(reportPage))

const reportPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>hostvuln report {{.Host.Hostname}}</title>
<style>
body { font-family: Segoe UI, Helvetica, Arial, sans-serif; margin: 2em; color: #222; }
.cards { display: flex; gap: 1em; margin-bottom: 2em; }
.card { padding: 1em 1.5em; border-radius: 6px; background: #f3f3f3; min-width: 7em; }
.card b { display: block; font-size: 1.8em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 6px 8px; text-align: left; vertical-align: top; }
th { background: #333; color: #fff; }
.critical { color: #b00020; font-weight: bold; }
.high { color: #d2461b; font-weight: bold; }
.medium { color: #c79100; }
.low { color: #2e7d32; }
.unknown { color: #777; }
.kev { background: #b00020; color: #fff; padding: 1px 6px; border-radius: 3px; }
</style>
</head>
<body>
<h1>Host vulnerability report</h1>
<p>Host <b>{{.Host.Hostname}}</b> ({{.Host.Platform}} {{.Host.PlatformVersion}}, {{.Host.Arch}}) scanned {{.Generated}}. Scan id {{.ScanID}}, hostvuln {{.Version}}.</p>
<div class="cards">
  <div class="card">Total<b>{{.Summary.Total}}</b></div>
  <div class="card critical">Critical<b>{{.Summary.Critical}}</b></div>
  <div class="card high">High<b>{{.Summary.High}}</b></div>
  <div class="card medium">Medium<b>{{.Summary.Medium}}</b></div>
  <div class="card low">Low<b>{{.Summary.Low}}</b></div>
  <div class="card">Exploited<b>{{.Summary.Exploited}}</b></div>
</div>
{{if .Findings}}
<table>
<thead><tr><th>#</th><th>Title</th><th>Kind</th><th>Score</th><th>Severity</th><th>KEV</th><th>Published</th><th>Description</th></tr></thead>
<tbody>
{{range $i, $f := .Findings}}<tr>
<td>{{inc $i}}</td>
<td>{{$f.Title}}{{if $f.CPE}}<br><small>{{$f.CPE}}</small>{{end}}</td>
<td>{{$f.Kind}}</td>
<td>{{score $f.Score}}</td>
<td class="{{lower $f.Severity}}">{{$f.Severity}}</td>
<td>{{if $f.Exploited}}<span class="kev">KEV</span>{{end}}</td>
<td>{{$f.Published}}</td>
<td>{{$f.Description}}</td>
</tr>
{{end}}</tbody>
</table>
{{else}}
<p>No findings.</p>
{{end}}
</body>
</html>
`
