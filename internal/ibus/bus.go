//go:build linux

package ibus

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/godbus/dbus/v5"
)

var (
	// ErrNoAddress means no IBus daemon address could be found.
	ErrNoAddress = errors.New("ibus: daemon address not found")
	// ErrNameTaken means another engine process owns the bus name.
	ErrNameTaken = errors.New("ibus: bus name already taken")
)

// machineIDFiles are tried in order.
var machineIDFiles = []string{"/etc/machine-id", "/var/lib/dbus/machine-id"}

// Address locates the IBus daemon: IBUS_ADDRESS first, then the address
// file the daemon writes under the user config directory.
func Address() (string, error) {
	if addr := os.Getenv("IBUS_ADDRESS"); addr != "" {
		return addr, nil
	}
	path, err := BusFilePath()
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoAddress, err)
	}
	defer f.Close()
	return parseBusFile(f)
}

// BusFilePath returns $XDG_CONFIG_HOME/ibus/bus/<machine-id>-<host>-<display>.
func BusFilePath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoAddress, err)
		}
		configDir = filepath.Join(home, ".config")
	}
	id, err := machineID()
	if err != nil {
		return "", err
	}
	host, display := displayParts(os.Getenv("DISPLAY"), os.Getenv("WAYLAND_DISPLAY"))
	return filepath.Join(configDir, "ibus", "bus", fmt.Sprintf("%s-%s-%s", id, host, display)), nil
}

func machineID() (string, error) {
	for _, name := range machineIDFiles {
		data, err := os.ReadFile(name)
		if err != nil {
			continue
		}
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: no machine id", ErrNoAddress)
}

// displayParts splits an X11 DISPLAY such as "host:1.0" into host and
// display number. Local displays use the host "unix". Without X11 the
// Wayland socket name stands in for the number.
func displayParts(x11, wayland string) (host, display string) {
	host, display = "unix", "0"
	if x11 == "" {
		if wayland != "" {
			display = wayland
		}
		return host, display
	}
	colon := strings.LastIndex(x11, ":")
	if colon < 0 {
		return host, display
	}
	if colon > 0 {
		host = x11[:colon]
	}
	num := x11[colon+1:]
	if dot := strings.Index(num, "."); dot >= 0 {
		num = num[:dot]
	}
	if num != "" {
		display = num
	}
	return host, display
}

// parseBusFile reads IBUS_ADDRESS from the daemon's address file.
func parseBusFile(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if v, ok := strings.CutPrefix(line, "IBUS_ADDRESS="); ok && v != "" {
			return v, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", ErrNoAddress
}

// Connect dials the IBus daemon, falling back to the session bus when
// address is empty and none can be discovered.
func Connect(address string, logger *slog.Logger) (*dbus.Conn, error) {
	if address == "" {
		addr, err := Address()
		if err != nil {
			logger.Warn("ibus address not found, using session bus", "error", err)
			conn, err := dbus.ConnectSessionBus()
			if err != nil {
				return nil, fmt.Errorf("connect session bus: %w", err)
			}
			return conn, nil
		}
		address = addr
	}
	conn, err := dbus.Connect(address)
	if err != nil {
		return nil, fmt.Errorf("connect ibus at %s: %w", address, err)
	}
	return conn, nil
}

// Serve exports the factory, claims the engine bus name and blocks until
// ctx is done. Live engines are destroyed before it returns.
func Serve(ctx context.Context, conn *dbus.Conn, factory *Factory) error {
	if err := conn.Export(factory, IBusFactoryPath, IBusFactoryInterface); err != nil {
		return fmt.Errorf("export factory: %w", err)
	}

	reply, err := conn.RequestName(ZhuyinBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return ErrNameTaken
	}
	factory.log.Info("zhuyin engine started", "name", ZhuyinBusName)

	<-ctx.Done()
	factory.Close()
	conn.Export(nil, IBusFactoryPath, IBusFactoryInterface)
	if _, err := conn.ReleaseName(ZhuyinBusName); err != nil {
		factory.log.Warn("release bus name", "error", err)
	}
	return nil
}
