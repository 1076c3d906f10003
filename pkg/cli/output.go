package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mchmarny/punch/pkg/config"
	"github.com/mchmarny/punch/pkg/damage"
	"github.com/mchmarny/punch/pkg/vectors"
	"gopkg.in/yaml.v3"
)

type textWriter func(w io.Writer) error

func encode(w io.Writer, format string, v any, text textWriter) error {
	switch format {
	case config.FormatYAML:
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	case config.FormatJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(v)
	default:
		return text(w)
	}
}

type calcOutput struct {
	Damage float64        `json:"damage" yaml:"damage"`
	Valid  bool           `json:"valid" yaml:"valid"`
	Error  string         `json:"error,omitempty" yaml:"error,omitempty"`
	Detail *damage.Result `json:"detail,omitempty" yaml:"detail,omitempty"`
}

func (o *calcOutput) writeText(w io.Writer) error {
	if o.Detail == nil {
		_, err := fmt.Fprintf(w, "%.6g\n", o.Damage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	d := o.Detail
	fmt.Fprintf(tw, "distance\t%.4f\n", d.Distance)
	fmt.Fprintf(tw, "base\t%.6g\n", d.Base)
	fmt.Fprintf(tw, "distance multiplier\t%.6g\n", d.DistanceMultiplier)
	fmt.Fprintf(tw, "effectiveness\t%.6g (%s)\n", d.Effectiveness, d.Rule)
	fmt.Fprintf(tw, "damage\t%.6g\n", d.Damage)
	return tw.Flush()
}

type tableSummary struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Cases       int    `json:"cases" yaml:"cases"`
}

func writeTableList(w io.Writer, list []*tableSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCASES\tDESCRIPTION")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", t.Name, t.Cases, t.Description)
	}
	return tw.Flush()
}

func writeReport(w io.Writer, r *vectors.Report) error {
	for _, o := range r.Outcomes {
		status := "PASS"
		if !o.Passed {
			status = "FAIL"
		}
		if _, err := fmt.Fprintf(w, "%s %d: expected=%.6g, got=%.6g [%s]\n",
			o.Table, o.ID, o.Expected, o.Got, status); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "run %s: %d passed, %d failed, %d total (tolerance %g)\n",
		r.RunID, r.Passed, r.Failed, r.Total, r.Tolerance)
	return err
}
