package report

import (
	"fmt"
	"sort"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/molsim/internal/props"
)

var fields = map[string]func(props.Summary) float64{
	"kin_energy": func(s props.Summary) float64 { return s.KinEnergy },
	"tot_energy": func(s props.Summary) float64 { return s.TotEnergy },
	"pressure":   func(s props.Summary) float64 { return s.Pressure },
}

func Fields() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Series(summaries []props.Summary, field string) ([]float64, error) {
	get, ok := fields[field]
	if !ok {
		return nil, fmt.Errorf("unknown field: %s (available: %v)", field, Fields())
	}
	data := make([]float64, len(summaries))
	for i, s := range summaries {
		data[i] = get(s)
	}
	return data, nil
}

// Plot draws one summary field against record index.
func Plot(summaries []props.Summary, field string, width, height int) (string, error) {
	if len(summaries) == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	data, err := Series(summaries, field)
	if err != nil {
		return "", err
	}

	caption := fmt.Sprintf("%s, steps %d..%d", field, summaries[0].Step, summaries[len(summaries)-1].Step)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}
