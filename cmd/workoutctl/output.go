package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"example.com/workoutmap/internal/domain"
	"example.com/workoutmap/internal/export"
)

// outputFormat is the -o flag value.
type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

var _ pflag.Value = (*outputFormat)(nil)

func (f *outputFormat) String() string { return string(*f) }

func (f *outputFormat) Set(v string) error {
	switch outputFormat(strings.ToLower(v)) {
	case formatTable, formatJSON, formatYAML:
		*f = outputFormat(strings.ToLower(v))
		return nil
	default:
		return fmt.Errorf("must be one of table|json|yaml")
	}
}

func (f *outputFormat) Type() string { return "format" }

func addOutputFlag(flags *pflag.FlagSet, target *outputFormat) {
	*target = formatTable
	flags.VarP(target, "output", "o", "Output format (table|json|yaml)")
}

type record struct {
	ID            string    `json:"id" yaml:"id"`
	Type          string    `json:"type" yaml:"type"`
	Description   string    `json:"description" yaml:"description"`
	Date          time.Time `json:"date" yaml:"date"`
	Latitude      float64   `json:"latitude" yaml:"latitude"`
	Longitude     float64   `json:"longitude" yaml:"longitude"`
	Distance      float64   `json:"distance_km" yaml:"distance_km"`
	Duration      float64   `json:"duration_min" yaml:"duration_min"`
	Cadence       *float64  `json:"cadence_spm,omitempty" yaml:"cadence_spm,omitempty"`
	Pace          *float64  `json:"pace_min_per_km,omitempty" yaml:"pace_min_per_km,omitempty"`
	ElevationGain *float64  `json:"elevation_gain_m,omitempty" yaml:"elevation_gain_m,omitempty"`
	Speed         *float64  `json:"speed_km_per_h,omitempty" yaml:"speed_km_per_h,omitempty"`
}

func toRecord(w domain.Workout) record {
	r := record{
		ID:          w.ID,
		Type:        string(w.Type),
		Description: w.Description,
		Date:        w.CreatedAt,
		Latitude:    w.Coordinates.Latitude,
		Longitude:   w.Coordinates.Longitude,
		Distance:    w.Distance,
		Duration:    w.Duration,
	}
	if run := w.Running; run != nil {
		r.Cadence, r.Pace = &run.Cadence, &run.Pace
	}
	if ride := w.Cycling; ride != nil {
		r.ElevationGain, r.Speed = &ride.ElevationGain, &ride.Speed
	}
	return r
}

func render(out io.Writer, format outputFormat, workouts []domain.Workout) error {
	records := make([]record, 0, len(workouts))
	for _, w := range workouts {
		records = append(records, toRecord(w))
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case formatYAML:
		data, err := yaml.Marshal(records)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDESCRIPTION\tSUMMARY")
		for _, w := range workouts {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", w.ID, w.Description, export.Summary(w))
		}
		return tw.Flush()
	}
}
