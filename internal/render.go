package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TRouxel/TradingDashboard/internal/service"
	"github.com/valyala/fasttemplate"
)

const analysisTemplate = "{{ticker}} {{date}} close={{close}} rsi={{rsi}} trend={{trend}} bb={{bb}} " +
	"pattern={{pattern}} divergence={{divergence}} buy={{buy}} sell={{sell}} => {{action}} ({{conviction}}/{{max}})\n"

const (
	summaryTemplate  = "{{name}} signals={{signals}} {{horizons}}\n"
	rankingTemplate  = "{{rank}}. {{name}} [{{side}}] accuracy={{accuracy}} signals={{signals}}\n"
	strategyTemplate = "{{policy}} N={{period}} return={{total}}% buy&hold={{bh}}% outperformance={{out}}% trades={{trades}} {{extra}}\n"
)

func render(w io.Writer, template string, values map[string]interface{}) error {
	tmpl := fasttemplate.New(template, "{{", "}}")
	_, err := tmpl.Execute(w, values)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', 2, 64)
}

func formatOptional(val *float64) string {
	if val == nil {
		return "n/a"
	}
	return formatFloat(*val)
}

func formatHorizons(stats []service.HorizonStats) string {
	parts := make([]string, 0, len(stats))
	for _, h := range stats {
		parts = append(parts, fmt.Sprintf("%dd:%s%%/%s", h.Horizon, formatOptional(h.Accuracy), formatFloat(h.CumulativeReturn)))
	}
	return strings.Join(parts, " ")
}
