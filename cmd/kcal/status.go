package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/charlie0129/kcal/pkg/attr"
	"github.com/charlie0129/kcal/pkg/config"
	"github.com/charlie0129/kcal/pkg/kcal"
)

type statusData struct {
	state *kcal.State
	// hardwareGains is what the colour-correction block reports.
	hardwareGains string
	properties    []attr.Info
	config        *config.RawFileConfig
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData() (*statusData, error) {
	state, err := apiClient.GetState()
	if err != nil {
		return nil, fmt.Errorf("failed to get calibration state: %w", err)
	}

	props, err := apiClient.ListProperties()
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	hw := ""
	for _, p := range props {
		if p.Name == attr.Calibration {
			hw = p.Value
		}
	}

	conf, err := apiClient.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return &statusData{
		state:         state,
		hardwareGains: hw,
		properties:    props,
		config:        conf,
	}, nil
}

func NewStatusCommand() *cobra.Command {
	asJSON := false

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of kcal",
		Long:    `Get calibration state, hardware gains, and daemon configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData()
			if err != nil {
				return err
			}

			cfg := config.NewFileFromConfig(data.config, "")

			if asJSON {
				return printStatusJSON(cmd, data, cfg)
			}

			s := data.state

			cmd.Println(bold("Calibration:"))
			cmd.Println("  Enabled: " + bool2Text(s.Enabled))
			if !s.Enabled {
				cmd.Println("    Colour correction and picture adjustment are bypassed.")
			}
			cmd.Printf("  Gains: %s %s %s\n",
				color.New(color.Bold, color.FgRed).Sprint(s.Gain.Red),
				color.New(color.Bold, color.FgGreen).Sprint(s.Gain.Green),
				color.New(color.Bold, color.FgBlue).Sprint(s.Gain.Blue))
			if data.hardwareGains != "" {
				cmd.Printf("    Hardware reports: %s\n", bold("%s", data.hardwareGains))
			}
			cmd.Printf("  Floor: %s\n", bold("%d", s.MinFloor))

			cmd.Println()

			cmd.Println(bold("Picture adjustment:"))
			cmd.Printf("  Hue: %s\n", bold("%d", s.Tone.Hue))
			cmd.Printf("  Saturation: %s\n", bold("%d", s.Tone.Saturation))
			cmd.Printf("  Value: %s\n", bold("%d", s.Tone.Value))
			cmd.Printf("  Contrast: %s\n", bold("%d", s.Tone.Contrast))

			cmd.Println()

			cmd.Println(bold("Daemon configuration:"))
			cmd.Printf("  Display: %s\n", bold("%d", cfg.Display()))
			cmd.Printf("  Backend: %s\n", bold("%s", cfg.Backend()))
			if cfg.Backend() == config.BackendWindow {
				cmd.Printf("  Register window: %s\n", bold("%s", cfg.WindowPath()))
			}
			cmd.Printf("  Allow non-root users to access the daemon: %s\n", bool2Text(cfg.AllowNonRootAccess()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print status as JSON.")

	return cmd
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
