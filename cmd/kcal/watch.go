package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/kcal/pkg/events"
)

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Print calibration changes as they happen",
		GroupID: gAdvanced,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ch, err := apiClient.SubscribeEvents(ctx)
			if err != nil {
				return fmt.Errorf("failed to subscribe to events: %w", err)
			}

			for ev := range ch {
				switch ev.Name {
				case events.PropertyChanged:
					p, err := events.DecodeAs[events.PropertyChangedEvent](ev)
					if err != nil {
						logrus.Warnf("malformed %s event: %v", ev.Name, err)
						continue
					}
					cmd.Printf("%s %s = %s\n", time.Unix(p.Ts, 0).Format(time.TimeOnly), p.Property, bold("%s", p.Value))
				case events.SurfaceReset:
					p, err := events.DecodeAs[events.SurfaceResetEvent](ev)
					if err != nil {
						logrus.Warnf("malformed %s event: %v", ev.Name, err)
						continue
					}
					cmd.Printf("%s %s\n", time.Unix(p.Ts, 0).Format(time.TimeOnly), bold("reset to defaults"))
				default:
					logrus.Debugf("ignoring event %s", ev.Name)
				}
			}

			return nil
		},
	}
}
