package broadcast

import (
	"net"
	"testing"
	"time"

	"github.com/wfunc/bingoserver/network"
	"github.com/wfunc/bingoserver/session"
)

// countingConnection records how many packets it was sent.
type countingConnection struct {
	sent int
}

func (c *countingConnection) Send(msgID uint16, data []byte) error {
	c.sent++
	return nil
}
func (c *countingConnection) SendJSON(msgID uint16, v interface{}) error {
	c.sent++
	return nil
}
func (c *countingConnection) Close() error                         { return nil }
func (c *countingConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (c *countingConnection) SetHeartbeat(interval time.Duration)  {}
func (c *countingConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func addSession(m *session.Manager, id, playerID string) *countingConnection {
	conn := &countingConnection{}
	s := session.NewSession(id, conn)
	s.PlayerID = playerID
	m.Add(s)
	return conn
}

func TestGlobalBroadcaster_BroadcastToAll(t *testing.T) {
	manager := session.NewManager()
	c1 := addSession(manager, "s1", "p1")
	c2 := addSession(manager, "s2", "p2")

	b := NewGlobalBroadcaster(manager)
	if err := b.BroadcastToAll(1, []byte("{}")); err != nil {
		t.Fatalf("BroadcastToAll failed: %v", err)
	}

	if c1.sent != 1 || c2.sent != 1 {
		t.Errorf("expected one packet per session, got %d and %d", c1.sent, c2.sent)
	}
}

func TestGlobalBroadcaster_BroadcastToPlayers(t *testing.T) {
	manager := session.NewManager()
	c1 := addSession(manager, "s1", "p1")
	c2 := addSession(manager, "s2", "p2")
	c3 := addSession(manager, "s3", "p1") // second device, same player

	b := NewGlobalBroadcaster(manager)
	if err := b.BroadcastToPlayers([]string{"p1"}, 1, []byte("{}")); err != nil {
		t.Fatalf("BroadcastToPlayers failed: %v", err)
	}

	if c1.sent != 1 || c3.sent != 1 {
		t.Errorf("expected both of p1's sessions to receive, got %d and %d", c1.sent, c3.sent)
	}
	if c2.sent != 0 {
		t.Errorf("p2 should not receive, got %d", c2.sent)
	}
}
