package session

import (
	"os"

	"github.com/godbus/dbus/v5"
)

const (
	login1Dest        = "org.freedesktop.login1"
	login1Path        = "/org/freedesktop/login1"
	login1Manager     = "org.freedesktop.login1.Manager"
	login1Session     = "org.freedesktop.login1.Session"
	propertiesIface   = "org.freedesktop.DBus.Properties"
	autoSessionPath   = "/org/freedesktop/login1/session/auto"
	lockedHintProp    = "org.freedesktop.login1.Session.LockedHint"
	getSessionByPID   = "org.freedesktop.login1.Manager.GetSessionByPID"
	propertiesChanged = "org.freedesktop.DBus.Properties.PropertiesChanged"
)

// DBusClient defines the D-Bus operations the lock monitor needs.
// This abstraction allows us to mock D-Bus interactions in tests.
//
//go:generate mockgen -destination=mocks/dbus_client_mock.go -package=mocks github.com/genricoloni/hyprsprite/internal/session DBusClient
type DBusClient interface {
	// Close closes the D-Bus connection
	Close() error

	// AddMatchSignal adds a signal match rule
	AddMatchSignal(options ...dbus.MatchOption) error

	// Signal registers a channel to receive D-Bus signals
	Signal(ch chan<- *dbus.Signal)

	// SessionPath returns the logind object path of this process's session
	SessionPath() (dbus.ObjectPath, error)

	// GetProperty retrieves a property from a D-Bus object
	GetProperty(dest string, path dbus.ObjectPath, prop string) (dbus.Variant, error)
}

// StdDBusClient is the real implementation using godbus
type StdDBusClient struct {
	conn *dbus.Conn
}

// NewSystemDBusClient creates a real D-Bus client connected to the system bus
func NewSystemDBusClient() (DBusClient, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, err
	}
	return &StdDBusClient{conn: conn}, nil
}

// Close closes the D-Bus connection
func (c *StdDBusClient) Close() error {
	return c.conn.Close()
}

// AddMatchSignal adds a signal match rule
func (c *StdDBusClient) AddMatchSignal(options ...dbus.MatchOption) error {
	return c.conn.AddMatchSignal(options...)
}

// Signal registers a channel to receive D-Bus signals
func (c *StdDBusClient) Signal(ch chan<- *dbus.Signal) {
	c.conn.Signal(ch)
}

// SessionPath asks logind which session owns this process
func (c *StdDBusClient) SessionPath() (dbus.ObjectPath, error) {
	var path dbus.ObjectPath
	obj := c.conn.Object(login1Dest, login1Path)
	err := obj.Call(getSessionByPID, 0, uint32(os.Getpid())).Store(&path)
	return path, err
}

// GetProperty retrieves a property from a D-Bus object
func (c *StdDBusClient) GetProperty(dest string, path dbus.ObjectPath, prop string) (dbus.Variant, error) {
	return c.conn.Object(dest, path).GetProperty(prop)
}
