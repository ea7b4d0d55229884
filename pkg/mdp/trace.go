package mdp

import (
	"github.com/sirupsen/logrus"
)

// Traced wraps a Locator so that every lookup and every payload is logged at
// trace level.
func Traced(l Locator) Locator {
	return &tracedLocator{l: l}
}

type tracedLocator struct {
	l Locator
}

func (t *tracedLocator) Lookup(display int) (Pipeline, error) {
	logrus.WithFields(logrus.Fields{
		"display": display,
	}).Trace("Trying to resolve display pipeline")

	p, err := t.l.Lookup(display)
	if err != nil {
		return nil, err
	}

	return &tracedPipeline{p: p, display: display}, nil
}

type tracedPipeline struct {
	p       Pipeline
	display int
}

func (t *tracedPipeline) ConfigPCC(cfg *PCCConfig) error {
	fields := logrus.Fields{
		"display": t.display,
		"block":   cfg.Block,
		"ops":     cfg.Ops,
	}
	if !cfg.Ops.Has(OpsRead) {
		fields["r"], fields["g"], fields["b"] = cfg.R, cfg.G, cfg.B
	}
	logrus.WithFields(fields).Trace("Trying to configure PCC")

	err := t.p.ConfigPCC(cfg)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"display": t.display,
		"r":       cfg.R,
		"g":       cfg.G,
		"b":       cfg.B,
	}).Trace("Configure PCC succeed")

	return nil
}

func (t *tracedPipeline) ConfigPA(cfg *PAConfig) error {
	logrus.WithFields(logrus.Fields{
		"display":    t.display,
		"block":      cfg.Block,
		"flags":      cfg.Flags,
		"hue":        cfg.Hue,
		"saturation": cfg.Saturation,
		"value":      cfg.Value,
		"contrast":   cfg.Contrast,
	}).Trace("Trying to configure PA")

	err := t.p.ConfigPA(cfg)
	if err != nil {
		return err
	}

	logrus.WithField("display", t.display).Trace("Configure PA succeed")

	return nil
}

func (t *tracedPipeline) Close() error {
	return t.p.Close()
}
