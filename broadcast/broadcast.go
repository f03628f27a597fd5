// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/bingoserver/session"
)

// GlobalBroadcaster 全局广播器：面向所有在线连接
// Room-scoped fanout is done by rooms over their own members; this type only
// handles lobby-wide notifications.
type GlobalBroadcaster struct {
	sessionManager *session.Manager
}

func NewGlobalBroadcaster(sessionManager *session.Manager) *GlobalBroadcaster {
	return &GlobalBroadcaster{
		sessionManager: sessionManager,
	}
}

func (b *GlobalBroadcaster) BroadcastToAll(msgID uint16, data []byte) error {
	b.sessionManager.Each(func(s *session.Session) {
		if err := s.Send(msgID, data); err != nil {
			// 发送错误由连接层的断开处理收尾
			return
		}
	})
	return nil
}

// BroadcastToPlayers sends to every session bound to one of the given player
// identities.
func (b *GlobalBroadcaster) BroadcastToPlayers(playerIDs []string, msgID uint16, data []byte) error {
	for _, playerID := range playerIDs {
		for _, s := range b.sessionManager.GetByPlayerID(playerID) {
			if err := s.Send(msgID, data); err != nil {
				continue
			}
		}
	}
	return nil
}
