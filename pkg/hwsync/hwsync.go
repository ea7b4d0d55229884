// Package hwsync keeps the PCC and PA register blocks of a display in sync
// with a kcal.State.
//
// Every call resolves the pipeline afresh and either completes or is
// skipped. Skips are never reported to the caller: the in-memory state stays
// the source of truth.
package hwsync

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/kcal/pkg/kcal"
	"github.com/charlie0129/kcal/pkg/mdp"
)

// Syncer pushes calibration state to one display pipeline.
type Syncer struct {
	locator mdp.Locator
	display int
}

// New returns a Syncer for display, resolved through locator.
func New(locator mdp.Locator, display int) *Syncer {
	return &Syncer{
		locator: locator,
		display: display,
	}
}

func enableOps(enabled bool) mdp.Ops {
	if enabled {
		return mdp.OpsEnable
	}
	return mdp.OpsDisable
}

// BuildGainCorrection returns the PCC payload for s. Each channel is raised
// to the floor and scaled into the coefficient domain.
func BuildGainCorrection(s *kcal.State) mdp.PCCConfig {
	scale := func(gain uint32) uint32 {
		return max(gain, s.MinFloor) * mdp.PCCScale
	}

	return mdp.PCCConfig{
		Block: mdp.BlockDisp0,
		Ops:   mdp.OpsWrite | enableOps(s.Enabled),
		R:     scale(s.Gain.Red),
		G:     scale(s.Gain.Green),
		B:     scale(s.Gain.Blue),
	}
}

// BuildToneAdjustment returns the PA payload for s. All four parameters are
// always carried since the block has no partial update.
func BuildToneAdjustment(s *kcal.State) mdp.PAConfig {
	return mdp.PAConfig{
		Block: mdp.BlockDisp0,
		Flags: mdp.OpsWrite | enableOps(s.Enabled) |
			mdp.PAHueMask | mdp.PAHueEnable |
			mdp.PASatMask | mdp.PASatEnable |
			mdp.PAValMask | mdp.PAValEnable |
			mdp.PAContMask | mdp.PAContEnable,
		Hue:        s.Tone.Hue,
		Saturation: s.Tone.Saturation,
		Value:      s.Tone.Value,
		Contrast:   s.Tone.Contrast,
	}
}

// PushGainCorrection writes the full gain triplet of s.
func (y *Syncer) PushGainCorrection(s *kcal.State) {
	cfg := BuildGainCorrection(s)

	y.with("PushGainCorrection", func(p mdp.Pipeline) error {
		return p.ConfigPCC(&cfg)
	})
}

// PushToneAdjustment writes hue, saturation, value and contrast of s.
func (y *Syncer) PushToneAdjustment(s *kcal.State) {
	cfg := BuildToneAdjustment(s)

	y.with("PushToneAdjustment", func(p mdp.Pipeline) error {
		return p.ConfigPA(&cfg)
	})
}

// ReadGainCorrection replaces the gains of s with what the PCC block holds.
// s is left alone when the pipeline is unavailable or any channel decodes
// to a gain outside kcal.GainRange.
func (y *Syncer) ReadGainCorrection(s *kcal.State) {
	cfg := mdp.PCCConfig{
		Block: mdp.BlockDisp0,
		Ops:   mdp.OpsRead,
	}

	ok := y.with("ReadGainCorrection", func(p mdp.Pipeline) error {
		return p.ConfigPCC(&cfg)
	})
	if !ok {
		return
	}

	gains := kcal.Gains{
		Red:   (cfg.R & mdp.PCCLowMask) / mdp.PCCScale,
		Green: (cfg.G & mdp.PCCLowMask) / mdp.PCCScale,
		Blue:  (cfg.B & mdp.PCCLowMask) / mdp.PCCScale,
	}
	if !kcal.GainRange.Contains(gains.Red) || !kcal.GainRange.Contains(gains.Green) || !kcal.GainRange.Contains(gains.Blue) {
		logrus.WithFields(logrus.Fields{
			"display": y.display,
			"r":       cfg.R,
			"g":       cfg.G,
			"b":       cfg.B,
		}).Debug("PCC read back degenerate values, keeping current gains")
		return
	}

	s.Gain = gains
}

// with resolves the pipeline and runs fn on it. It returns false when the
// pipeline could not be resolved or fn failed.
func (y *Syncer) with(op string, fn func(p mdp.Pipeline) error) bool {
	entry := logrus.WithFields(logrus.Fields{
		"op":      op,
		"display": y.display,
	})

	p, err := y.locator.Lookup(y.display)
	if err != nil {
		if errors.Is(err, mdp.ErrUnavailable) {
			entry.WithError(err).Debug("display pipeline unavailable, skipped")
		} else {
			entry.WithError(err).Warn("failed to resolve display pipeline, skipped")
		}
		return false
	}
	defer func() {
		if err := p.Close(); err != nil {
			entry.WithError(err).Warn("failed to release display pipeline")
		}
	}()

	if err := fn(p); err != nil {
		entry.WithError(err).Warn("register access failed, skipped")
		return false
	}

	return true
}
