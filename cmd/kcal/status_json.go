package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/charlie0129/kcal/pkg/config"
	"github.com/charlie0129/kcal/pkg/kcal"
)

type statusJSON struct {
	Calibration   kcal.State       `json:"calibration"`
	Hardware      statusHWJSON     `json:"hardware"`
	Properties    []statusPropJSON `json:"properties"`
	Configuration statusConfigJSON `json:"configuration"`
}

type statusHWJSON struct {
	// Gains is omitted when the daemon did not report them.
	Gains string `json:"gains,omitempty"`
}

type statusPropJSON struct {
	Name  string     `json:"name"`
	Value string     `json:"value"`
	Range kcal.Range `json:"range"`
	Arity int        `json:"arity"`
}

type statusConfigJSON struct {
	Display            int    `json:"display"`
	Backend            string `json:"backend"`
	WindowPath         string `json:"windowPath"`
	AllowNonRootAccess bool   `json:"allowNonRootAccess"`
}

func printStatusJSON(cmd *cobra.Command, data *statusData, cfg *config.File) error {
	out := statusJSON{
		Calibration: *data.state,
		Hardware: statusHWJSON{
			Gains: data.hardwareGains,
		},
		Configuration: statusConfigJSON{
			Display:            cfg.Display(),
			Backend:            cfg.Backend(),
			WindowPath:         cfg.WindowPath(),
			AllowNonRootAccess: cfg.AllowNonRootAccess(),
		},
	}

	for _, p := range data.properties {
		out.Properties = append(out.Properties, statusPropJSON{
			Name:  p.Name,
			Value: p.Value,
			Range: p.Range,
			Arity: p.Arity,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
