package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/kcal/pkg/attr"
	"github.com/charlie0129/kcal/pkg/config"
	"github.com/charlie0129/kcal/pkg/events"
	"github.com/charlie0129/kcal/pkg/hwsync"
	"github.com/charlie0129/kcal/pkg/kcal"
	"github.com/charlie0129/kcal/pkg/mdp"
)

// Daemon owns the calibration state of one display and serves it.
type Daemon struct {
	// mu serializes every access to surface. The surface itself does not
	// lock.
	mu      sync.Mutex
	surface *attr.Surface
	conf    config.Config
	hub     *events.EventHub

	done     chan struct{}
	stopOnce sync.Once
}

// New builds a Daemon whose pipeline is resolved through locator. The
// surface is not initialized until Init is called.
func New(conf config.Config, locator mdp.Locator) *Daemon {
	syncer := hwsync.New(mdp.Traced(locator), conf.Display())

	return &Daemon{
		surface: attr.New(kcal.NewState(), syncer),
		conf:    conf,
		hub:     events.NewEventHub(),
		done:    make(chan struct{}),
	}
}

// stopStreams ends every open event stream.
func (d *Daemon) stopStreams() {
	d.stopOnce.Do(func() {
		close(d.done)
	})
}

// NewLocator returns the pipeline backend selected by conf.
func NewLocator(conf config.Config) (mdp.Locator, error) {
	switch conf.Backend() {
	case config.BackendMock:
		return mdp.NewMock(conf.Display()), nil
	case config.BackendWindow:
		return mdp.NewWindow(conf.WindowPath()), nil
	}
	return nil, pkgerrors.Errorf("unknown backend %q", conf.Backend())
}

// Init installs default calibration and pushes it to the hardware.
func (d *Daemon) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.surface.Init()
}

// Close withdraws the property surface. The hardware keeps its last state.
func (d *Daemon) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.surface.Close()
}

func (d *Daemon) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/properties", d.listProperties)
	router.GET("/properties/:name", d.getProperty)
	router.PUT("/properties/:name", d.setProperty)
	router.GET("/state", d.getState)
	router.POST("/reset", d.reset)
	router.GET("/config", d.getConfig)
	router.GET("/events", d.streamEvents)
	router.GET("/version", getVersion)

	return router
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	conf, err := config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	locator, err := NewLocator(conf)
	if err != nil {
		return err
	}

	d := New(conf, locator)
	router := d.setupRoutes()

	var reloadMu sync.Mutex
	reload := func(reason string) {
		reloadMu.Lock()
		defer reloadMu.Unlock()

		display, backend := conf.Display(), conf.Backend()
		err := conf.Load()
		if err != nil {
			logrus.Errorf("failed to reload config: %v", err)
			return
		}
		if conf.Display() != display || conf.Backend() != backend {
			logrus.Warn("display and backend changes take effect after a restart")
		}
		logrus.WithField("reason", reason).Infof("config reloaded")
	}

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			reload("SIGHUP")
		}
	}()

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if err := config.Watch(watchCtx, configPath, func() { reload("file changed") }); err != nil {
		logrus.Warnf("config file changes will not be picked up until SIGHUP: %v", err)
	}

	if err := d.Init(); err != nil {
		return pkgerrors.Wrapf(err, "failed to initialize calibration")
	}
	logrus.WithField("display", conf.Display()).Info("calibration initialized with defaults")

	srv := &http.Server{
		Handler: router,
	}
	srv.RegisterOnShutdown(d.stopStreams)

	// A socket left behind by an unclean exit would make Listen fail.
	if err := os.Remove(unixSocketPath); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("failed to remove stale socket %s: %v", unixSocketPath, err)
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("withdrawing property surface")
	d.Close()

	logrus.Info("exiting")
	return nil
}
