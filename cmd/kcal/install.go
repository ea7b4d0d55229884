package main

import (
	"fmt"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/kcal/pkg/config"
	daemonutils "github.com/charlie0129/kcal/pkg/utils/daemon"
)

func init() {
	commandGroups = append(commandGroups, gInstallation)
}

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	allowNonRootAccess := false
	display := 0
	backend := config.BackendWindow
	windowPath := ""

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Install kcal (system-wide)",
		GroupID: gInstallation,
		Long: `Install kcal daemon as a systemd service (system-wide).

This makes kcal run in the background and automatically start on boot. You must run this command as root.

By default, only root user is allowed to access the kcal daemon for security reasons. If you want to allow non-root users to access the daemon, you can use the --allow-non-root-access flag, so you don't have to use sudo every time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}

			conf.SetAllowNonRootAccess(allowNonRootAccess)
			if allowNonRootAccess {
				logrus.Info("non-root users are allowed to access the kcal daemon.")
			} else {
				logrus.Info("only root user is allowed to access the kcal daemon.")
			}

			if cmd.Flags().Changed("display") {
				if display < 0 {
					return fmt.Errorf("invalid display %d", display)
				}
				conf.SetDisplay(display)
			}
			if cmd.Flags().Changed("backend") {
				if backend != config.BackendWindow && backend != config.BackendMock {
					return fmt.Errorf("unknown backend %q", backend)
				}
				conf.SetBackend(backend)
			}
			if cmd.Flags().Changed("window-path") {
				conf.SetWindowPath(windowPath)
			}

			err = conf.Save()
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to save config")
			}

			err = daemonutils.Install()
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to install daemon: %v. Are you root?", err)
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()

			cmd.Printf("systemd will use current binary (%s) at startup so please make sure you do not move this binary. Once this binary is moved or deleted, you will need to run `kcal install' again.\n", exePath)

			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&allowNonRootAccess, "allow-non-root-access", false, "Allow non-root users to access kcal daemon.")
	f.IntVar(&display, "display", display, "Display (pipeline) index to calibrate.")
	f.StringVar(&backend, "backend", backend, "Pipeline backend (window, mock).")
	f.StringVar(&windowPath, "window-path", windowPath, "Register window device; %d is replaced with the display index.")

	return cmd
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "uninstall",
		Short:   "Uninstall kcal (system-wide)",
		GroupID: gInstallation,
		Long: `Uninstall kcal daemon from systemd (system-wide).

This stops kcal and removes its unit. The display keeps the calibration it was last given.

You must run this command as root.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := daemonutils.Uninstall()
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to uninstall daemon: %v", err)
			}

			fmt.Println("successfully uninstalled")

			cmd.Printf("Your config is kept in %s, in case you want to use `kcal' again. If you want a complete uninstall, you can remove both config file and kcal itself manually.\n", configPath)

			return nil
		},
	}

	return cmd
}
