package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/kcal/pkg/attr"
	"github.com/charlie0129/kcal/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get <property>",
		Short:   "Print the value of a property",
		GroupID: gAdvanced,
		Long: `Print the value of a property.

Properties: calibration, enable, floor, hue, saturation, value, contrast.

"calibration" reports the gains the hardware currently holds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := apiClient.GetProperty(args[0])
			if err != nil {
				return fmt.Errorf("failed to get %s: %w", args[0], err)
			}
			cmd.Println(v)
			return nil
		},
	}
}

func NewSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "set <property> <value>...",
		Short:   "Write the raw value of a property",
		GroupID: gAdvanced,
		Long: `Write the raw value of a property.

The value is passed to the daemon as is. "calibration" takes three values,
every other property takes one. Out-of-range or malformed values are rejected
and nothing changes.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return setAndReport(args[0], strings.Join(args[1:], " "))
		},
	}
}

func NewRGBCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rgb [red] [green] [blue]",
		Short:   "Set per-channel gain correction",
		GroupID: gBasic,
		Long: `Set per-channel gain correction.

Each gain is from 1 to 256, 256 being unity. Without arguments the gains
currently held by the hardware are printed.

Gains below the floor (see 'kcal floor') are raised to the floor when written
to the hardware, but the values you set are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				v, err := apiClient.GetProperty(attr.Calibration)
				if err != nil {
					return err
				}
				cmd.Println(v)
				return nil
			}
			if len(args) != 3 {
				return fmt.Errorf("invalid number of arguments: want 3, got %d", len(args))
			}

			var gains [3]int
			for i, a := range args {
				v, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("invalid gain %q: %v", a, err)
				}
				gains[i] = v
			}

			ret, err := apiClient.SetGains(gains[0], gains[1], gains[2])
			if err != nil {
				return fmt.Errorf("failed to set gains: %v", err)
			}

			if ret != "" && ret != "ok" {
				logrus.Infof("daemon responded: %s", ret)
			}

			logrus.Infof("successfully set gains to %d %d %d", gains[0], gains[1], gains[2])

			return nil
		},
	}
}

func NewEnableCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "enable",
		Short:   "Enable colour calibration",
		GroupID: gBasic,
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := apiClient.SetEnabled(true); err != nil {
				return fmt.Errorf("failed to enable calibration: %v", err)
			}

			logrus.Infof("successfully enabled calibration")

			return nil
		},
	}
}

func NewDisableCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "disable",
		Short:   "Disable colour calibration",
		GroupID: gBasic,
		Long: `Disable colour calibration.

The hardware blocks are bypassed. Gains and picture adjustments are kept, so
'kcal enable' brings them back.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := apiClient.SetEnabled(false); err != nil {
				return fmt.Errorf("failed to disable calibration: %v", err)
			}

			logrus.Infof("successfully disabled calibration. To re-enable it, run \"kcal enable\".")

			return nil
		},
	}
}

func NewResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "reset",
		Short:   "Restore default calibration",
		GroupID: gBasic,
		RunE: func(_ *cobra.Command, _ []string) error {
			ret, err := apiClient.Reset()
			if err != nil {
				return fmt.Errorf("failed to reset calibration: %v", err)
			}

			if ret != "" && ret != "ok" {
				logrus.Infof("daemon responded: %s", ret)
			}

			logrus.Infof("successfully restored default calibration")

			return nil
		},
	}
}
