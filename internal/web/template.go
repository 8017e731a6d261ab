package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/mode-button/internal/logic"
	"github.com/sweeney/mode-button/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stamp": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.UTC().Format("2006-01-02T15:04:05Z")
	},
	"networkClass": func(c logic.Connectivity) string {
		switch c {
		case logic.Connected:
			return "connected"
		case logic.Disconnected:
			return "disconnected"
		}
		return "unknown"
	},
	"orUnknown": func(c logic.Connectivity) string {
		if c == "" {
			return "UNKNOWN"
		}
		return string(c)
	},
	"count": func(m map[logic.Action]int, a string) int {
		return m[logic.Action(a)]
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Mode Button</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.error { color: red; }
</style>
</head>
<body>
<h1>Mode Button</h1>

<h2>Button</h2>
<table>
<tr><th>Phase</th><td>{{.Phase}}</td></tr>
<tr><th>Blinks</th><td>{{.BlinkCount}}</td></tr>
<tr><th>LED</th><td>{{if .LEDHolder}}held by {{.LEDHolder}}{{else}}free{{end}}</td></tr>
{{with .LastDecision}}<tr><th>Last decision</th><td>{{.Action}} ({{.BlinkCount}} blinks, {{stamp .Timestamp}})</td></tr>{{end}}
{{if .LastError}}<tr><th>Last error</th><td class="error">{{.LastError}}</td></tr>{{end}}
</table>

<h2>Network</h2>
<table>
<tr><th>{{.Config.Interface}}</th><td class="{{networkClass .Connectivity}}">{{orUnknown .Connectivity}}</td></tr>
<tr><th>Last probe</th><td>{{stamp .LastProbe}}</td></tr>
<tr><th>Last render</th><td>{{stamp .LastRender}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>Counts</h2>
<table>
<tr><th>Presses</th><td>{{.Counters.Presses}}</td></tr>
<tr><th>SWITCH_CLIENT</th><td>{{count .Counters.Actions "SWITCH_CLIENT"}}</td></tr>
<tr><th>SWITCH_AP</th><td>{{count .Counters.Actions "SWITCH_AP"}}</td></tr>
<tr><th>REBOOT</th><td>{{count .Counters.Actions "REBOOT"}}</td></tr>
<tr><th>Dispatch errors</th><td>{{.Counters.DispatchErrs}}</td></tr>
<tr><th>Renders</th><td>{{.Counters.Renders}}</td></tr>
<tr><th>Skipped renders</th><td>{{.Counters.Skips}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{stamp .StartTime}}</td></tr>
<tr><th>GPIO</th><td>button {{.Config.PinButton}}, led {{.Config.PinLED}} ({{.Config.Backend}})</td></tr>
<tr><th>Poll / blink / cooldown</th><td>{{.Config.PollMs}}ms / {{.Config.BlinkMs}}ms / {{.Config.CooldownMs}}ms</td></tr>
<tr><th>Check / render</th><td>{{.Config.CheckMs}}ms / {{.Config.RenderMs}}ms</td></tr>
<tr><th>Reboot via</th><td>{{.Config.RebootMethod}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, ledHolder string) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime    time.Duration
		LEDHolder string
	}{
		Snapshot:  snap,
		Uptime:    snap.Uptime(),
		LEDHolder: ledHolder,
	}
	indexTmpl.Execute(w, data)
}
