package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

// LockMonitor tracks whether the logind session is locked or about to
// sleep. The watcher consults it to avoid spawning sprites behind a lock
// screen. Without a system bus it simply never reports a pause.
type LockMonitor struct {
	logger  *zap.Logger
	connect func() (DBusClient, error)

	locked   atomic.Bool
	sleeping atomic.Bool

	mu          sync.Mutex
	running     bool
	cancel      context.CancelFunc
	conn        DBusClient
	sessionPath dbus.ObjectPath
	wg          sync.WaitGroup
}

// NewLockMonitor creates a monitor backed by the system bus
func NewLockMonitor(logger *zap.Logger) *LockMonitor {
	return newLockMonitor(logger, NewSystemDBusClient)
}

func newLockMonitor(logger *zap.Logger, connect func() (DBusClient, error)) *LockMonitor {
	return &LockMonitor{logger: logger, connect: connect}
}

// Paused reports whether the session is locked or preparing to sleep
func (m *LockMonitor) Paused() bool {
	return m.locked.Load() || m.sleeping.Load()
}

// Start connects to the system bus and begins listening. It returns
// immediately; bus failures are logged and leave the monitor inert.
func (m *LockMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}

	conn, err := m.connect()
	if err != nil {
		m.logger.Warn("System bus unavailable, lock detection disabled", zap.Error(err))
		return nil
	}

	path, err := conn.SessionPath()
	if err != nil {
		m.logger.Warn("Could not resolve logind session, listening on all sessions", zap.Error(err))
		path = ""
	}

	if err := m.subscribe(conn, path); err != nil {
		m.logger.Warn("Failed to add logind match rules, lock detection disabled", zap.Error(err))
		if cerr := conn.Close(); cerr != nil {
			m.logger.Warn("Failed to close D-Bus connection", zap.Error(cerr))
		}
		return nil
	}

	m.readLockedHint(conn, path)

	monitorCtx, cancel := context.WithCancel(context.Background())
	m.conn = conn
	m.sessionPath = path
	m.cancel = cancel
	m.running = true

	signals := make(chan *dbus.Signal, 10)
	conn.Signal(signals)

	m.wg.Add(1)
	go m.monitorSignals(monitorCtx, signals)

	m.logger.Info("Session lock monitor started", zap.String("session", string(path)))
	return nil
}

// Stop ends the signal loop and closes the bus connection
func (m *LockMonitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.cancel()
	m.running = false
	conn := m.conn
	m.mu.Unlock()

	m.wg.Wait()

	if err := conn.Close(); err != nil {
		m.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
	}
	m.logger.Info("Session lock monitor stopped")
	return nil
}

func (m *LockMonitor) subscribe(conn DBusClient, path dbus.ObjectPath) error {
	sessionOpts := []dbus.MatchOption{dbus.WithMatchInterface(login1Session)}
	propsOpts := []dbus.MatchOption{
		dbus.WithMatchInterface(propertiesIface),
		dbus.WithMatchMember("PropertiesChanged"),
		dbus.WithMatchArg(0, login1Session),
	}
	if path != "" {
		sessionOpts = append(sessionOpts, dbus.WithMatchObjectPath(path))
		propsOpts = append(propsOpts, dbus.WithMatchObjectPath(path))
	}

	if err := conn.AddMatchSignal(sessionOpts...); err != nil {
		return err
	}
	if err := conn.AddMatchSignal(propsOpts...); err != nil {
		return err
	}
	return conn.AddMatchSignal(
		dbus.WithMatchInterface(login1Manager),
		dbus.WithMatchMember("PrepareForSleep"),
	)
}

// readLockedHint seeds the lock state for a watcher started behind a lock screen
func (m *LockMonitor) readLockedHint(conn DBusClient, path dbus.ObjectPath) {
	if path == "" {
		path = autoSessionPath
	}
	v, err := conn.GetProperty(login1Dest, path, lockedHintProp)
	if err != nil {
		m.logger.Debug("LockedHint unavailable", zap.Error(err))
		return
	}
	if locked, ok := v.Value().(bool); ok {
		m.locked.Store(locked)
	}
}

func (m *LockMonitor) monitorSignals(ctx context.Context, signals <-chan *dbus.Signal) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			if sig != nil {
				m.handleSignal(sig)
			}
		}
	}
}

// handleSignal updates the lock/sleep flags from a logind signal
func (m *LockMonitor) handleSignal(sig *dbus.Signal) {
	if m.sessionPath != "" && sig.Path != m.sessionPath && sig.Name != login1Manager+".PrepareForSleep" {
		return
	}

	switch sig.Name {
	case login1Session + ".Lock":
		m.setLocked(true)

	case login1Session + ".Unlock":
		m.setLocked(false)

	case login1Manager + ".PrepareForSleep":
		if len(sig.Body) < 1 {
			return
		}
		sleeping, ok := sig.Body[0].(bool)
		if !ok {
			return
		}
		m.sleeping.Store(sleeping)
		m.logger.Info("Sleep state changed", zap.Bool("sleeping", sleeping))

	case propertiesChanged:
		if len(sig.Body) < 2 {
			return
		}
		iface, ok := sig.Body[0].(string)
		if !ok || iface != login1Session {
			return
		}
		changed, ok := sig.Body[1].(map[string]dbus.Variant)
		if !ok {
			return
		}
		if v, ok := changed["LockedHint"]; ok {
			if locked, ok := v.Value().(bool); ok {
				m.setLocked(locked)
			}
		}
	}
}

func (m *LockMonitor) setLocked(locked bool) {
	if m.locked.Swap(locked) != locked {
		m.logger.Info("Session lock state changed", zap.Bool("locked", locked))
	}
}
