package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	credstore "github.com/incidentmart/credstore"
	"github.com/incidentmart/credstore/metrics/export/internaldefs"
)

const contentType = "text/plain; version=0.0.4; charset=utf-8"

type metricsSource interface {
	MetricsSnapshot() credstore.MetricsSnapshot
	AuditDropped() uint64
}

// PrometheusExporter renders an Engine's counters as outcome-labeled
// families, plus the authenticate latency histogram and audit drops.
type PrometheusExporter struct {
	source metricsSource
}

// NewPrometheusExporter reads from engine on every Render.
func NewPrometheusExporter(engine *credstore.Engine) *PrometheusExporter {
	return &PrometheusExporter{source: engine}
}

// NewPrometheusExporterFromSource reads from any snapshot source.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler serves Render on every request.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render returns the exposition text, or "" when metrics are disabled and
// nothing was dropped.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snap := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()
	if len(snap.Counters) == 0 && len(snap.Histograms) == 0 && dropped == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(4096)

	if len(snap.Counters) > 0 {
		for _, f := range internaldefs.Families {
			header(&b, f.Name, f.Help, "counter")
			for _, s := range f.Series {
				sample(&b, f.Name, s.Outcome, snap.Counters[s.ID])
			}
		}
	}

	if raw, ok := snap.Histograms[internaldefs.Latency.ID]; ok {
		latency(&b, internaldefs.Cumulative(raw))
	}

	header(&b, internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, "counter")
	sample(&b, internaldefs.AuditDroppedName, "", dropped)

	return b.String()
}

func header(b *strings.Builder, name, help, kind string) {
	b.WriteString("# HELP " + name + " " + escapeHelp(help) + "\n")
	b.WriteString("# TYPE " + name + " " + kind + "\n")
}

func sample(b *strings.Builder, name, outcome string, v uint64) {
	b.WriteString(name)
	if outcome != "" {
		b.WriteString("{" + internaldefs.OutcomeLabel + "=\"" + outcome + "\"}")
	}
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(v, 10))
	b.WriteByte('\n')
}

// latency writes the histogram. Snapshots carry no sum, so _sum is 0.
func latency(b *strings.Builder, cumulative [8]uint64) {
	name := internaldefs.Latency.Name
	header(b, name, internaldefs.Latency.Help, "histogram")
	for i, le := range internaldefs.LatencyBounds {
		b.WriteString(name + "_bucket{le=\"" + le + "\"} ")
		b.WriteString(strconv.FormatUint(cumulative[i], 10))
		b.WriteByte('\n')
	}
	b.WriteString(name + "_sum 0\n")
	b.WriteString(name + "_count " + strconv.FormatUint(cumulative[len(cumulative)-1], 10) + "\n")
}

func escapeHelp(help string) string {
	return strings.NewReplacer(`\`, `\\`, "\n", `\n`).Replace(help)
}
