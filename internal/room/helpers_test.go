package room

import (
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/randutil"
)

type delivery struct {
	connID string
	msg    Outbound
}

// recorder captures every message the manager delivers.
type recorder struct {
	mu   sync.Mutex
	sent []delivery
}

func (r *recorder) Notify(connID string, msg Outbound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, delivery{connID: connID, msg: msg})
}

func (r *recorder) For(connID string) []Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Outbound
	for _, d := range r.sent {
		if d.connID == connID {
			out = append(out, d.msg)
		}
	}
	return out
}

func (r *recorder) Types(connID string) []MessageType {
	var types []MessageType
	for _, msg := range r.For(connID) {
		types = append(types, msg.Type)
	}
	return types
}

func (r *recorder) All(connID string, mt MessageType) []Outbound {
	var out []Outbound
	for _, msg := range r.For(connID) {
		if msg.Type == mt {
			out = append(out, msg)
		}
	}
	return out
}

func (r *recorder) Last(connID string, mt MessageType) (Outbound, bool) {
	all := r.All(connID, mt)
	if len(all) == 0 {
		return Outbound{}, false
	}
	return all[len(all)-1], true
}

func newTestManager(t *testing.T, opts Options) (*Manager, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts.Notifier = rec
	if opts.RNG == nil {
		opts.RNG = randutil.New(1)
	}
	m := NewManager(log.New(io.Discard), opts)
	t.Cleanup(m.Close)
	return m, rec
}

// seated is a test table of connections keyed by player id.
type seated map[string]string

// openRoom hosts a room for the first name and joins the rest, returning the
// room and a player id to connection id map.
func openRoom(t *testing.T, m *Manager, cfg Config, names ...string) (*Room, seated) {
	t.Helper()
	conns := make(seated)
	r, host, err := m.HostRoom(cfg, "conn-"+names[0], names[0])
	require.NoError(t, err)
	conns[host.ID] = "conn-" + names[0]
	for _, name := range names[1:] {
		p, err := m.JoinRoom(r.ID(), "conn-"+name, name)
		require.NoError(t, err)
		conns[p.ID] = "conn-" + name
	}
	return r, conns
}

func readyAll(t *testing.T, m *Manager, conns seated) {
	t.Helper()
	for _, conn := range conns {
		require.NoError(t, m.SetReady(conn))
	}
}

// currentConn returns the connection whose turn it is.
func currentConn(t *testing.T, r *Room, conns seated) (string, game.PlayerView) {
	t.Helper()
	view := r.TableView()
	p, ok := view.Current()
	require.True(t, ok, "no player to act in phase %s", view.Phase)
	return conns[p.ID], p
}

// checkDown plays passively until the hand ends.
func checkDown(t *testing.T, m *Manager, r *Room, conns seated) {
	t.Helper()
	for i := 0; r.TableView().Phase.Betting(); i++ {
		require.Less(t, i, 50, "hand did not finish")
		view := r.TableView()
		conn, p := currentConn(t, r, conns)
		var action game.Action = game.Check{}
		if view.ToCall(p) > 0 {
			action = game.Call{}
		}
		require.NoError(t, m.Act(conn, action))
	}
}

func chipTotal(players []Player) int {
	total := 0
	for _, p := range players {
		total += p.Chips
	}
	return total
}
