package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Watch calls onChange whenever the file at path is written, created or
// replaced, until ctx is done. The parent directory is watched so that
// editors which rename a temp file over the config are noticed too.
func Watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create watcher")
	}

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return pkgerrors.Wrapf(err, "failed to watch %s", filepath.Dir(path))
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					logrus.WithField("op", event.Op.String()).Debugf("config file %s changed", path)
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logrus.Warnf("config watcher: %v", err)
			}
		}
	}()

	return nil
}
