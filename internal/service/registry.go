package service

import "sync"

// SessionRegistry 登记存活的评论流会话，供定时对账任务遍历
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[*FeedSession]struct{}
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[*FeedSession]struct{})}
}

func (r *SessionRegistry) Register(s *FeedSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s] = struct{}{}
}

func (r *SessionRegistry) Unregister(s *FeedSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, s)
}

// ForEach 对每个会话执行 fn，遍历时持有快照，fn 内可安全注销
func (r *SessionRegistry) ForEach(fn func(*FeedSession)) {
	r.mu.Lock()
	snapshot := make([]*FeedSession, 0, len(r.sessions))
	for s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.Unlock()

	for _, s := range snapshot {
		fn(s)
	}
}
