package ws

import (
	"sync"

	"github.com/6ReactTeamproject/nest-sub000/internal/service"
)

// Identity 는 연결에 귀속된 사용자다. UserID 0 은 익명 세션을 뜻한다.
type Identity struct {
	UserID   uint
	Username string
}

// Anonymous 는 토큰 검증에 실패한 연결에 부여되는 기본 신원이다.
func Anonymous() Identity {
	return Identity{UserID: 0, Username: service.AnonymousName}
}

// Registry 는 연결 id → 신원 의 순수 인메모리 매핑이다.
// 연결 시 넣고 끊길 때 지우며, 프로세스 밖으로는 공유되지 않는다.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Identity
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Identity)}
}

func (r *Registry) Put(connID string, id Identity) {
	r.mu.Lock()
	r.sessions[connID] = id
	r.mu.Unlock()
}

func (r *Registry) Get(connID string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.sessions[connID]
	return id, ok
}

func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	delete(r.sessions, connID)
	r.mu.Unlock()
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Hub 는 문자열 방 id 단위의 브로드캐스트 그룹을 관리한다.
// 한 연결이 여러 방에 속할 수 있다.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*Client]bool
	registry *Registry
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool), registry: NewRegistry()}
}

func (h *Hub) Registry() *Registry { return h.registry }

// Join 은 연결을 방 그룹에 넣는다. 이미 있으면 아무 일도 없다.
func (h *Hub) Join(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[roomID]
	if room == nil {
		room = make(map[*Client]bool)
		h.rooms[roomID] = room
	}
	room[c] = true
}

// Leave 는 연결을 방에서 뺀다. 빈 방은 맵에서 정리한다.
func (h *Hub) Leave(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[roomID]
	if room == nil {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, roomID)
	}
}

// RemoveClient 는 연결을 모든 방에서 빼고, 속해 있던 방 목록을 돌려준다.
func (h *Hub) RemoveClient(c *Client) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var joined []string
	for roomID, room := range h.rooms {
		if room[c] {
			joined = append(joined, roomID)
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	return joined
}

// InRoom 은 연결이 방 그룹에 있는지 알려준다.
func (h *Hub) InRoom(roomID string, c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[roomID][c]
}

func (h *Hub) Online(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Broadcast 는 방의 모든 연결에 payload 를 보낸다. 버퍼가 찬 연결은 건너뛴다.
func (h *Hub) Broadcast(roomID string, payload []byte) {
	h.BroadcastExcept(roomID, payload, nil)
}

// BroadcastExcept 는 skip 을 제외한 방의 연결들에 payload 를 보낸다.
func (h *Hub) BroadcastExcept(roomID string, payload []byte, skip *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		if c == skip {
			continue
		}
		select {
		case c.send <- payload:
		default:
			// 최선-노력 브로드캐스트: 느린 수신자 때문에 전체를 막지 않는다.
		}
	}
}
