package repository

import (
	"Echowall/internal/model"
	"Echowall/internal/pkg/consts"
	"Echowall/internal/service"
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// CommentStats 管理端统计结果
type CommentStats struct {
	Total    int64
	Pending  int64
	Approved int64
	Hidden   int64
}

type CommentRepo interface {
	ListTop(ctx context.Context, bizType, bizID, sortBy string, offset, limit int, viewerID uint64) ([]*model.Comment, int, error)
	RepliesOf(ctx context.Context, rootID uint64, offset, limit int, viewerID uint64) ([]*model.Comment, int, error)
	GetByID(ctx context.Context, commentID, viewerID uint64) (*model.Comment, error)
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	ToggleLike(ctx context.Context, commentID, userID uint64) (bool, int, error)
	Delete(ctx context.Context, commentID uint64) error

	AdminList(ctx context.Context, status *int8, bizType, content string, offset, limit int) ([]*model.Comment, int, error)
	Audit(ctx context.Context, commentIDs []uint64, status int8, remark string) (int, error)
	UpdateContent(ctx context.Context, commentID uint64, content string) error
	BatchDelete(ctx context.Context, commentIDs []uint64) (int, error)
	Stats(ctx context.Context) (*CommentStats, error)
}

// CommentRepoImpl 内存实现，供本地联调后端使用，进程重启即重置
type CommentRepoImpl struct {
	mu       sync.RWMutex
	seq      uint64
	comments map[uint64]*model.Comment
	order    []uint64
	likes    map[uint64]map[uint64]struct{}
	remarks  map[uint64]string
}

func NewCommentRepo() CommentRepo {
	return &CommentRepoImpl{
		comments: make(map[uint64]*model.Comment),
		likes:    make(map[uint64]map[uint64]struct{}),
		remarks:  make(map[uint64]string),
	}
}

// visible 公开端是否可见，隐藏的评论只在管理端出现
func visible(c *model.Comment) bool {
	return c.Status == nil || *c.Status != consts.CommentStatusHidden
}

func (s *CommentRepoImpl) cloneFor(c *model.Comment, viewerID uint64) *model.Comment {
	cp := *c
	_, cp.IsLiked = s.likes[c.CommentID][viewerID]
	return &cp
}

func (s *CommentRepoImpl) ListTop(_ context.Context, bizType, bizID, sortBy string, offset, limit int, viewerID uint64) ([]*model.Comment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tops := make([]*model.Comment, 0)
	for _, id := range s.order {
		c := s.comments[id]
		if c.IsTopLevel() && c.BizType == bizType && c.BizID == bizID && visible(c) {
			tops = append(tops, c)
		}
	}

	// 置顶评论始终排在最前
	sort.SliceStable(tops, func(i, j int) bool {
		a, b := tops[i], tops[j]
		if a.IsTop != b.IsTop {
			return a.IsTop
		}
		switch sortBy {
		case consts.SortOldest:
			return a.CommentID < b.CommentID
		case consts.SortHottest:
			if a.LikeCount != b.LikeCount {
				return a.LikeCount > b.LikeCount
			}
			return a.CommentID > b.CommentID
		default:
			return a.CommentID > b.CommentID
		}
	})

	total := len(tops)
	page := paginate(tops, offset, limit)
	out := make([]*model.Comment, 0, len(page))
	for _, c := range page {
		out = append(out, s.cloneFor(c, viewerID))
	}
	return out, total, nil
}

func (s *CommentRepoImpl) RepliesOf(_ context.Context, rootID uint64, offset, limit int, viewerID uint64) ([]*model.Comment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	root, ok := s.comments[rootID]
	if !ok || !root.IsTopLevel() {
		return nil, 0, service.ErrCommentNotFound
	}

	replies := make([]*model.Comment, 0)
	for _, id := range s.order {
		c := s.comments[id]
		if c.RootID == rootID && !c.IsTopLevel() && visible(c) {
			replies = append(replies, c)
		}
	}
	// 回复固定按发布时间正序
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CommentID < replies[j].CommentID
	})

	total := len(replies)
	page := paginate(replies, offset, limit)
	out := make([]*model.Comment, 0, len(page))
	for _, c := range page {
		out = append(out, s.cloneFor(c, viewerID))
	}
	return out, total, nil
}

func (s *CommentRepoImpl) GetByID(_ context.Context, commentID, viewerID uint64) (*model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[commentID]
	if !ok {
		return nil, service.ErrCommentNotFound
	}
	return s.cloneFor(c, viewerID), nil
}

func (s *CommentRepoImpl) Create(_ context.Context, comment *model.Comment) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if comment.ParentID != 0 {
		root, ok := s.comments[comment.RootID]
		if !ok || !root.IsTopLevel() {
			return nil, service.ErrCommentNotFound
		}
		if _, ok := s.comments[comment.ParentID]; !ok {
			return nil, service.ErrCommentNotFound
		}
	}

	s.seq++
	cp := *comment
	cp.CommentID = s.seq
	if cp.ParentID == 0 {
		cp.RootID = cp.CommentID
	}
	cp.LikeCount = 0
	cp.ReplyCount = 0
	cp.IsLiked = false
	status := consts.CommentStatusPending
	cp.Status = &status
	cp.CreatedAt = time.Now().Format(time.DateTime)

	s.comments[cp.CommentID] = &cp
	s.order = append(s.order, cp.CommentID)
	if cp.ParentID != 0 {
		s.comments[cp.RootID].ReplyCount++
	}

	out := cp
	return &out, nil
}

func (s *CommentRepoImpl) ToggleLike(_ context.Context, commentID, userID uint64) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return false, 0, service.ErrCommentNotFound
	}

	set, ok := s.likes[commentID]
	if !ok {
		set = make(map[uint64]struct{})
		s.likes[commentID] = set
	}

	if _, liked := set[userID]; liked {
		delete(set, userID)
		c.LikeCount--
		return false, c.LikeCount, nil
	}
	set[userID] = struct{}{}
	c.LikeCount++
	return true, c.LikeCount, nil
}

func (s *CommentRepoImpl) Delete(_ context.Context, commentID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(commentID)
}

func (s *CommentRepoImpl) deleteLocked(commentID uint64) error {
	c, ok := s.comments[commentID]
	if !ok {
		return service.ErrCommentNotFound
	}

	if c.IsTopLevel() {
		// 一级评论删除时连带其下全部回复
		replyIDs := make([]uint64, 0)
		for _, id := range s.order {
			r := s.comments[id]
			if r != nil && r.RootID == commentID && id != commentID {
				replyIDs = append(replyIDs, id)
			}
		}
		for _, id := range replyIDs {
			s.removeLocked(id)
		}
	} else if root, ok := s.comments[c.RootID]; ok && root.ReplyCount > 0 {
		root.ReplyCount--
	}
	s.removeLocked(commentID)
	return nil
}

func (s *CommentRepoImpl) removeLocked(commentID uint64) {
	delete(s.comments, commentID)
	delete(s.likes, commentID)
	delete(s.remarks, commentID)
	for i, id := range s.order {
		if id == commentID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *CommentRepoImpl) AdminList(_ context.Context, status *int8, bizType, content string, offset, limit int) ([]*model.Comment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*model.Comment, 0)
	for _, id := range s.order {
		c := s.comments[id]
		if status != nil {
			if c.Status == nil || *c.Status != *status {
				continue
			}
		}
		if bizType != "" && c.BizType != bizType {
			continue
		}
		if content != "" && !strings.Contains(c.Content, content) {
			continue
		}
		matched = append(matched, c)
	}
	// 管理端按发布时间倒序
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CommentID > matched[j].CommentID
	})

	total := len(matched)
	page := paginate(matched, offset, limit)
	out := make([]*model.Comment, 0, len(page))
	for _, c := range page {
		out = append(out, s.cloneFor(c, 0))
	}
	return out, total, nil
}

func (s *CommentRepoImpl) Audit(_ context.Context, commentIDs []uint64, status int8, remark string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, id := range commentIDs {
		c, ok := s.comments[id]
		if !ok {
			continue
		}
		v := status
		c.Status = &v
		if remark != "" {
			s.remarks[id] = remark
		}
		updated++
	}
	return updated, nil
}

func (s *CommentRepoImpl) UpdateContent(_ context.Context, commentID uint64, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return service.ErrCommentNotFound
	}
	c.Content = content
	return nil
}

func (s *CommentRepoImpl) BatchDelete(_ context.Context, commentIDs []uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for _, id := range commentIDs {
		if err := s.deleteLocked(id); err == nil {
			deleted++
		}
	}
	return deleted, nil
}

func (s *CommentRepoImpl) Stats(_ context.Context) (*CommentStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &CommentStats{}
	for _, c := range s.comments {
		stats.Total++
		switch {
		case c.Status == nil || *c.Status == consts.CommentStatusPending:
			stats.Pending++
		case *c.Status == consts.CommentStatusApproved:
			stats.Approved++
		default:
			stats.Hidden++
		}
	}
	return stats, nil
}

func paginate(list []*model.Comment, offset, limit int) []*model.Comment {
	if offset >= len(list) || offset < 0 {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
