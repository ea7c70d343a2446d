package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"
)

type Report struct {
	// Configuration
	Options  Options
	Entities int

	// Results
	SavedEntities  int
	SceneBytes     int
	TotalTime      time.Duration
	Extract        Stats
	Serialize      Stats
	Deserialize    Stats
	Spawn          Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Phases maps phase names to their timings; template ranges visit keys in order
func (r *Report) Phases() map[string]Stats {
	return map[string]Stats{
		"1 extract":     r.Extract,
		"2 serialize":   r.Serialize,
		"3 deserialize": r.Deserialize,
		"4 spawn":       r.Spawn,
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Scene Stress Test Report

## Test Configuration
- **Rounds:** {{.Options.Iterations}}
- **Live Entities:** {{.Entities}} ({{.Options.Tagged}} tagged roots, {{.Options.Depth}} children each, {{.Options.Untagged}} untagged)

## Scene
- **Saved Entities:** {{.SavedEntities}}
- **Scene Size:** {{.SceneBytes}} bytes ({{mb .SceneBytes}} MB)
- **Total Test Time:** {{.TotalTime}}

## Phase Timings
| Phase | Avg | Min | Max |
|---|---|---|---|
{{- range $name, $stats := .Phases}}
| {{$name}} | {{$stats.Avg}} | {{$stats.Min}} | {{$stats.Max}} |
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v int) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
