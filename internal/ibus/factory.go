//go:build linux

package ibus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"zhuyin/internal/ime"
)

// Bus is the part of *dbus.Conn the factory needs.
type Bus interface {
	emitter
	Export(v interface{}, path dbus.ObjectPath, iface string) error
}

// EngineBuilder creates the phonetic engine for a new input context.
type EngineBuilder func() (ime.PhoneticEngine, error)

// FactoryConfig holds what every session shares.
type FactoryConfig struct {
	NewEngine EngineBuilder
	Settings  ime.SettingsSource
	Keymap    ime.KeyMapper
	Keyboard  ime.KeyboardState
	Launcher  ime.Launcher
	Logger    *slog.Logger
}

// Factory implements org.freedesktop.IBus.Factory. Each CreateEngine call
// exports a new Engine backed by its own session.
type Factory struct {
	bus Bus
	cfg FactoryConfig
	log *slog.Logger

	mu       sync.Mutex
	engineID uint32
	engines  map[dbus.ObjectPath]*Engine
}

// NewFactory returns a factory that exports engines on bus.
func NewFactory(bus Bus, cfg FactoryConfig) (*Factory, error) {
	if bus == nil {
		return nil, errors.New("ibus: nil bus")
	}
	if cfg.NewEngine == nil {
		return nil, errors.New("ibus: engine builder is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		bus:     bus,
		cfg:     cfg,
		log:     logger.With(slog.String("component", "ibus")),
		engines: make(map[dbus.ObjectPath]*Engine),
	}, nil
}

// CreateEngine creates a new engine instance for IBus.
func (f *Factory) CreateEngine(engineName string) (dbus.ObjectPath, *dbus.Error) {
	f.log.Debug("create engine", "name", engineName)

	if engineName != ZhuyinEngineName {
		return "", dbus.NewError("org.freedesktop.IBus.NoEngine",
			[]interface{}{"Unknown engine: " + engineName})
	}

	eng, err := f.newEngine()
	if err != nil {
		f.log.Error("create engine failed", "error", err)
		return "", dbus.MakeFailedError(err)
	}
	return eng.path, nil
}

func (f *Factory) newEngine() (*Engine, error) {
	phonetic, err := f.cfg.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("build phonetic engine: %w", err)
	}

	f.mu.Lock()
	f.engineID++
	path := dbus.ObjectPath(fmt.Sprintf("%s%d", IBusEnginePathPrefix, f.engineID))
	f.mu.Unlock()

	logger := f.log.With(slog.String("path", string(path)))
	session, err := ime.NewSession(ime.SessionConfig{
		Engine:   phonetic,
		Host:     &signalHost{conn: f.bus, path: path, log: logger},
		Settings: f.cfg.Settings,
		Keymap:   f.cfg.Keymap,
		Keyboard: f.cfg.Keyboard,
		Launcher: f.cfg.Launcher,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	eng := &Engine{path: path, factory: f, log: logger, session: session}
	if err := f.bus.Export(eng, path, IBusEngineInterface); err != nil {
		session.Close()
		return nil, fmt.Errorf("export engine: %w", err)
	}
	if err := f.bus.Export(eng, path, IBusServiceInterface); err != nil {
		f.bus.Export(nil, path, IBusEngineInterface)
		session.Close()
		return nil, fmt.Errorf("export engine service: %w", err)
	}

	f.mu.Lock()
	f.engines[path] = eng
	f.mu.Unlock()
	logger.Info("engine created", "session", session.ID())
	return eng, nil
}

// Engine returns the live engine at path.
func (f *Factory) Engine(path dbus.ObjectPath) (*Engine, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	eng, ok := f.engines[path]
	return eng, ok
}

// Len returns the number of live engines.
func (f *Factory) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.engines)
}

func (f *Factory) destroy(eng *Engine) {
	f.mu.Lock()
	_, ok := f.engines[eng.path]
	delete(f.engines, eng.path)
	f.mu.Unlock()
	if !ok {
		return
	}

	f.bus.Export(nil, eng.path, IBusEngineInterface)
	f.bus.Export(nil, eng.path, IBusServiceInterface)
	if err := eng.close(); err != nil {
		f.log.Warn("close engine", "path", eng.path, "error", err)
	}
	f.log.Info("engine destroyed", "path", eng.path)
}

// Close destroys every live engine.
func (f *Factory) Close() error {
	f.mu.Lock()
	engines := make([]*Engine, 0, len(f.engines))
	for _, eng := range f.engines {
		engines = append(engines, eng)
	}
	f.mu.Unlock()

	for _, eng := range engines {
		f.destroy(eng)
	}
	return nil
}
