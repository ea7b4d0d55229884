package main

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/kcal/pkg/version"
)

func parseIntArg(args []string, valueName string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("invalid number of arguments")
	}

	value, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", valueName, err)
	}

	return value, nil
}

func getVersion() (string, string, error) {
	daemonVersion, err := apiClient.GetVersion()
	if err != nil {
		return version.Version, "", err
	}
	return version.Version, daemonVersion, nil
}

// setAndReport writes a property and logs the outcome the same way for every
// command.
func setAndReport(name, value string) error {
	ret, err := apiClient.SetProperty(name, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %v", name, err)
	}

	if ret != "" && ret != "ok" {
		logrus.Infof("daemon responded: %s", ret)
	}

	logrus.Infof("successfully set %s to %s", name, value)

	return nil
}

// newPropertyCommand builds a command that prints a single-valued property
// without arguments and sets it with one.
func newPropertyCommand(name, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:     name + " [value]",
		Short:   short,
		Long:    long,
		GroupID: gTone,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				v, err := apiClient.GetProperty(name)
				if err != nil {
					return err
				}
				cmd.Println(v)
				return nil
			}

			value, err := parseIntArg(args, name)
			if err != nil {
				return err
			}
			if value < 0 {
				return fmt.Errorf("invalid %s: must not be negative", name)
			}

			return setAndReport(name, strconv.Itoa(value))
		},
	}
}
