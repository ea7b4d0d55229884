package main

import (
	"github.com/spf13/cobra"

	"github.com/charlie0129/kcal/pkg/attr"
)

// NewToneCommands returns the floor and picture adjustment commands.
func NewToneCommands() []*cobra.Command {
	floor := newPropertyCommand(attr.Floor, "Set the minimum gain written to hardware",
		`Set the minimum gain written to hardware.

This is from 1 to 256. Gains below the floor are raised to it when pushed to
the colour-correction block. The gains you set are not changed.`)
	floor.GroupID = gAdvanced

	return []*cobra.Command{
		floor,
		newPropertyCommand(attr.Hue, "Set hue rotation",
			"Set hue rotation.\n\nThis is from 0 to 1536. 0 means no rotation."),
		newPropertyCommand(attr.Saturation, "Set saturation",
			"Set saturation.\n\nThis is from 128 to 383. 255 is the default."),
		newPropertyCommand(attr.Value, "Set value (brightness)",
			"Set value (brightness).\n\nThis is from 128 to 383. 255 is the default."),
		newPropertyCommand(attr.Contrast, "Set contrast",
			"Set contrast.\n\nThis is from 128 to 383. 255 is the default."),
	}
}
