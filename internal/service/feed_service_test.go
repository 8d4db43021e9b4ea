package service

import (
	"context"
	"errors"
	"testing"

	"Echowall/internal/api/dto"
)

type mockCommentGateway struct {
	listComments  func(ctx context.Context, q *dto.FeedQueryDTO) (*dto.FeedPageDTO, error)
	listReplies   func(ctx context.Context, commentID uint64, offset, limit int) (*dto.ReplyPageDTO, error)
	createComment func(ctx context.Context, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	toggleLike    func(ctx context.Context, commentID uint64) error
	deleteComment func(ctx context.Context, commentID uint64) error
}

var errMockUnexpected = errors.New("unexpected gateway call")

func (m *mockCommentGateway) ListComments(ctx context.Context, q *dto.FeedQueryDTO) (*dto.FeedPageDTO, error) {
	if m.listComments == nil {
		return nil, errMockUnexpected
	}
	return m.listComments(ctx, q)
}

func (m *mockCommentGateway) ListReplies(ctx context.Context, commentID uint64, offset, limit int) (*dto.ReplyPageDTO, error) {
	if m.listReplies == nil {
		return nil, errMockUnexpected
	}
	return m.listReplies(ctx, commentID, offset, limit)
}

func (m *mockCommentGateway) CreateComment(ctx context.Context, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	if m.createComment == nil {
		return nil, errMockUnexpected
	}
	return m.createComment(ctx, req)
}

func (m *mockCommentGateway) ToggleLike(ctx context.Context, commentID uint64) error {
	if m.toggleLike == nil {
		return errMockUnexpected
	}
	return m.toggleLike(ctx, commentID)
}

func (m *mockCommentGateway) DeleteComment(ctx context.Context, commentID uint64) error {
	if m.deleteComment == nil {
		return errMockUnexpected
	}
	return m.deleteComment(ctx, commentID)
}

func topDTO(id uint64, replyCount int) *dto.CommentDTO {
	return &dto.CommentDTO{
		CommentID:  id,
		BizType:    "post",
		BizID:      "2001",
		User:       dto.UserDTO{UserID: 42, NickName: "青衫"},
		Content:    "一级评论",
		ReplyCount: replyCount,
	}
}

func replyDTO(id, rootID, parentID uint64) *dto.CommentDTO {
	return &dto.CommentDTO{
		CommentID: id,
		RootID:    rootID,
		ParentID:  parentID,
		User:      dto.UserDTO{UserID: 43, NickName: "木鱼"},
		Content:   "回复",
	}
}

func TestLoadNextFinishedWhenAllLoaded(t *testing.T) {
	var gotQuery *dto.FeedQueryDTO
	gw := &mockCommentGateway{
		listComments: func(_ context.Context, q *dto.FeedQueryDTO) (*dto.FeedPageDTO, error) {
			gotQuery = q
			return &dto.FeedPageDTO{
				List:  []*dto.CommentDTO{topDTO(1, 0), topDTO(2, 0), topDTO(3, 0), topDTO(4, 0), topDTO(5, 0)},
				Total: 5,
			}, nil
		},
	}
	sess := NewFeedSession(gw, "post", "2001")

	if err := sess.LoadNext(context.Background()); err != nil {
		t.Fatalf("LoadNext: %v", err)
	}
	if gotQuery.Page != 1 || gotQuery.BizType != "post" || gotQuery.BizID != "2001" {
		t.Errorf("query = %+v", gotQuery)
	}

	state := sess.State()
	if state.Count != 5 || state.Total != 5 {
		t.Errorf("count/total = %d/%d, want 5/5", state.Count, state.Total)
	}
	if !state.Finished {
		t.Error("expected finished after loading all 5 of 5")
	}
	if state.Page != 2 {
		t.Errorf("page = %d, want 2", state.Page)
	}

	// 已加载完毕后再次触发应静默忽略
	gw.listComments = func(context.Context, *dto.FeedQueryDTO) (*dto.FeedPageDTO, error) {
		t.Fatal("gateway should not be called when finished")
		return nil, nil
	}
	if err := sess.LoadNext(context.Background()); err != nil {
		t.Fatalf("LoadNext after finished: %v", err)
	}
}

func TestLoadNextIngestsReplyPreviews(t *testing.T) {
	item := topDTO(1, 5)
	item.Replies = []*dto.CommentDTO{replyDTO(11, 1, 1), replyDTO(12, 1, 1), replyDTO(13, 1, 1)}
	item.HasMoreReplies = true
	gw := &mockCommentGateway{
		listComments: func(context.Context, *dto.FeedQueryDTO) (*dto.FeedPageDTO, error) {
			return &dto.FeedPageDTO{List: []*dto.CommentDTO{item}, Total: 1}, nil
		},
	}
	sess := NewFeedSession(gw, "post", "2001")
	if err := sess.LoadNext(context.Background()); err != nil {
		t.Fatalf("LoadNext: %v", err)
	}

	threads := sess.Threads()
	if len(threads) != 1 {
		t.Fatalf("threads = %d, want 1", len(threads))
	}
	if len(threads[0].Replies) != 3 {
		t.Errorf("preview replies = %d, want 3", len(threads[0].Replies))
	}
	if !threads[0].HasMoreReplies {
		t.Error("expected HasMoreReplies with 3 of 5 loaded")
	}
}

func TestLoadNextFailureKeepsPageRetryable(t *testing.T) {
	calls := 0
	gw := &mockCommentGateway{
		listComments: func(_ context.Context, q *dto.FeedQueryDTO) (*dto.FeedPageDTO, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("网络抖动")
			}
			if q.Page != 1 {
				t.Errorf("retry page = %d, want 1", q.Page)
			}
			return &dto.FeedPageDTO{List: []*dto.CommentDTO{topDTO(1, 0)}, Total: 1}, nil
		},
	}
	sess := NewFeedSession(gw, "post", "2001")

	if err := sess.LoadNext(context.Background()); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("err = %v, want ErrRequestFailed", err)
	}
	if sess.State().Page != 1 {
		t.Errorf("page after failure = %d, want 1", sess.State().Page)
	}

	if err := sess.LoadNext(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if sess.State().Count != 1 {
		t.Errorf("count = %d, want 1", sess.State().Count)
	}
}

func TestLoadNextConcurrentCallIgnored(t *testing.T) {
	var sess *FeedSession
	calls := 0
	gw := &mockCommentGateway{}
	gw.listComments = func(context.Context, *dto.FeedQueryDTO) (*dto.FeedPageDTO, error) {
		calls++
		if calls == 1 {
			// 请求在途时的重入触发应被静默忽略
			if err := sess.LoadNext(context.Background()); err != nil {
				t.Errorf("reentrant LoadNext: %v", err)
			}
		}
		return &dto.FeedPageDTO{List: []*dto.CommentDTO{topDTO(1, 0)}, Total: 2}, nil
	}
	sess = NewFeedSession(gw, "post", "2001")

	if err := sess.LoadNext(context.Background()); err != nil {
		t.Fatalf("LoadNext: %v", err)
	}
	if calls != 1 {
		t.Errorf("gateway calls = %d, want 1", calls)
	}
}

func TestLoadNextStaleCompletionDiscarded(t *testing.T) {
	var sess *FeedSession
	gw := &mockCommentGateway{}
	first := true
	gw.listComments = func(context.Context, *dto.FeedQueryDTO) (*dto.FeedPageDTO, error) {
		if first {
			first = false
			// 响应到达前切换了排序，结果必须丢弃
			sess.Reset("hottest")
		}
		return &dto.FeedPageDTO{List: []*dto.CommentDTO{topDTO(1, 0)}, Total: 1}, nil
	}
	sess = NewFeedSession(gw, "post", "2001")

	if err := sess.LoadNext(context.Background()); err != nil {
		t.Fatalf("LoadNext: %v", err)
	}

	state := sess.State()
	if state.Count != 0 {
		t.Errorf("stale page merged, count = %d, want 0", state.Count)
	}
	if state.Sort != "hottest" || state.Page != 1 {
		t.Errorf("state = %+v", state)
	}

	// 新纪元下可以正常加载
	if err := sess.LoadNext(context.Background()); err != nil {
		t.Fatalf("LoadNext after reset: %v", err)
	}
	if sess.State().Count != 1 {
		t.Errorf("count = %d, want 1", sess.State().Count)
	}
}

func loadSingleThread(t *testing.T, gw *mockCommentGateway, item *dto.CommentDTO, total int) *FeedSession {
	t.Helper()
	gw.listComments = func(context.Context, *dto.FeedQueryDTO) (*dto.FeedPageDTO, error) {
		return &dto.FeedPageDTO{List: []*dto.CommentDTO{item}, Total: total}, nil
	}
	sess := NewFeedSession(gw, "post", "2001")
	if err := sess.LoadNext(context.Background()); err != nil {
		t.Fatalf("LoadNext: %v", err)
	}
	gw.listComments = nil
	return sess
}

func TestExpandRepliesUsesLoadedOffset(t *testing.T) {
	item := topDTO(1, 5)
	item.Replies = []*dto.CommentDTO{replyDTO(11, 1, 1), replyDTO(12, 1, 1), replyDTO(13, 1, 1)}
	gw := &mockCommentGateway{}
	sess := loadSingleThread(t, gw, item, 1)

	gw.listReplies = func(_ context.Context, commentID uint64, offset, limit int) (*dto.ReplyPageDTO, error) {
		if commentID != 1 || offset != 3 {
			t.Errorf("commentID/offset = %d/%d, want 1/3", commentID, offset)
		}
		return &dto.ReplyPageDTO{
			List:       []*dto.CommentDTO{replyDTO(14, 1, 1), replyDTO(15, 1, 1)},
			ReplyCount: 5,
		}, nil
	}
	if err := sess.ExpandReplies(context.Background(), 1); err != nil {
		t.Fatalf("ExpandReplies: %v", err)
	}

	threads := sess.Threads()
	if len(threads[0].Replies) != 5 {
		t.Errorf("replies = %d, want 5", len(threads[0].Replies))
	}
	if threads[0].HasMoreReplies {
		t.Error("expected all replies loaded")
	}

	// 没有更多回复时不再发起请求
	gw.listReplies = func(context.Context, uint64, int, int) (*dto.ReplyPageDTO, error) {
		t.Fatal("gateway should not be called when fully expanded")
		return nil, nil
	}
	if err := sess.ExpandReplies(context.Background(), 1); err != nil {
		t.Fatalf("ExpandReplies noop: %v", err)
	}
}

func TestExpandRepliesUnknownComment(t *testing.T) {
	gw := &mockCommentGateway{}
	sess := loadSingleThread(t, gw, topDTO(1, 0), 1)

	if err := sess.ExpandReplies(context.Background(), 999); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("err = %v, want ErrCommentNotFound", err)
	}
}

func TestToggleLikeOptimisticAndConfirmed(t *testing.T) {
	item := topDTO(1, 0)
	item.LikeCount = 7
	gw := &mockCommentGateway{}
	sess := loadSingleThread(t, gw, item, 1)

	gw.toggleLike = func(_ context.Context, commentID uint64) error {
		// 请求发出前本地已是乐观状态
		c := sess.Threads()[0].Comment
		if !c.IsLiked || c.LikeCount != 8 {
			t.Errorf("optimistic state = %v/%d, want true/8", c.IsLiked, c.LikeCount)
		}
		return nil
	}
	if err := sess.ToggleLike(context.Background(), 1); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}

	c := sess.Threads()[0].Comment
	if !c.IsLiked || c.LikeCount != 8 {
		t.Errorf("state = %v/%d, want true/8", c.IsLiked, c.LikeCount)
	}

	// 再次切换回到未点赞
	gw.toggleLike = func(context.Context, uint64) error { return nil }
	if err := sess.ToggleLike(context.Background(), 1); err != nil {
		t.Fatalf("ToggleLike back: %v", err)
	}
	c = sess.Threads()[0].Comment
	if c.IsLiked || c.LikeCount != 7 {
		t.Errorf("state = %v/%d, want false/7", c.IsLiked, c.LikeCount)
	}
}

func TestToggleLikeRollbackOnFailure(t *testing.T) {
	item := topDTO(1, 0)
	item.LikeCount = 7
	gw := &mockCommentGateway{}
	sess := loadSingleThread(t, gw, item, 1)

	gw.toggleLike = func(context.Context, uint64) error { return errors.New("后端不可用") }
	if err := sess.ToggleLike(context.Background(), 1); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("err = %v, want ErrRequestFailed", err)
	}

	c := sess.Threads()[0].Comment
	if c.IsLiked || c.LikeCount != 7 {
		t.Errorf("rolled back state = %v/%d, want false/7", c.IsLiked, c.LikeCount)
	}
}

func TestToggleLikeWhileInFlightIgnored(t *testing.T) {
	gw := &mockCommentGateway{}
	sess := loadSingleThread(t, gw, topDTO(1, 0), 1)

	calls := 0
	gw.toggleLike = func(context.Context, uint64) error {
		calls++
		if calls == 1 {
			if err := sess.ToggleLike(context.Background(), 1); err != nil {
				t.Errorf("reentrant ToggleLike: %v", err)
			}
		}
		return nil
	}
	if err := sess.ToggleLike(context.Background(), 1); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if calls != 1 {
		t.Errorf("gateway calls = %d, want 1", calls)
	}
}

func TestPostCommentReplyPayload(t *testing.T) {
	item := topDTO(10, 1)
	item.Replies = []*dto.CommentDTO{replyDTO(11, 10, 10)}
	gw := &mockCommentGateway{}
	sess := loadSingleThread(t, gw, item, 1)

	var gotReq *dto.CommentCreateDTO
	gw.createComment = func(_ context.Context, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
		gotReq = req
		created := replyDTO(99, 10, 11)
		created.ReplyUserID = req.ReplyUserID
		created.Content = req.Content
		return created, nil
	}

	// 回复一条回复：parent 指向目标，root 追溯到一级评论
	created, err := sess.PostComment(context.Background(), "回复一条回复", 11)
	if err != nil {
		t.Fatalf("PostComment: %v", err)
	}
	if gotReq.ParentID != 11 || gotReq.RootID != 10 {
		t.Errorf("parent/root = %d/%d, want 11/10", gotReq.ParentID, gotReq.RootID)
	}
	if gotReq.ReplyUserID != 43 {
		t.Errorf("reply_user_id = %d, want 43", gotReq.ReplyUserID)
	}
	if created.CommentID != 99 {
		t.Errorf("created id = %d, want 99", created.CommentID)
	}

	threads := sess.Threads()
	if len(threads[0].Replies) != 2 {
		t.Errorf("replies = %d, want 2", len(threads[0].Replies))
	}
	if threads[0].Comment.ReplyCount != 2 {
		t.Errorf("reply count = %d, want 2", threads[0].Comment.ReplyCount)
	}
}

func TestPostCommentTopLevel(t *testing.T) {
	gw := &mockCommentGateway{}
	sess := loadSingleThread(t, gw, topDTO(1, 0), 5)

	gw.createComment = func(_ context.Context, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
		if req.ParentID != 0 || req.RootID != 0 {
			t.Errorf("top-level create carries parent/root = %d/%d", req.ParentID, req.RootID)
		}
		c := topDTO(2, 0)
		c.Content = req.Content
		return c, nil
	}

	if _, err := sess.PostComment(context.Background(), "新的一级评论", 0); err != nil {
		t.Fatalf("PostComment: %v", err)
	}
	state := sess.State()
	if state.Count != 2 || state.Total != 6 {
		t.Errorf("count/total = %d/%d, want 2/6", state.Count, state.Total)
	}
}

func TestPostCommentValidation(t *testing.T) {
	gw := &mockCommentGateway{}
	sess := loadSingleThread(t, gw, topDTO(1, 0), 1)

	gw.createComment = func(context.Context, *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
		t.Fatal("gateway should not be called for invalid content")
		return nil, nil
	}
	if _, err := sess.PostComment(context.Background(), "", 0); !errors.Is(err, ErrContentInvalid) {
		t.Errorf("err = %v, want ErrContentInvalid", err)
	}
}

func TestDeleteCommentRollbackOnFailure(t *testing.T) {
	item := topDTO(1, 2)
	item.Replies = []*dto.CommentDTO{replyDTO(11, 1, 1), replyDTO(12, 1, 1)}
	gw := &mockCommentGateway{}
	sess := loadSingleThread(t, gw, item, 3)

	removedDuringFlight := false
	gw.deleteComment = func(context.Context, uint64) error {
		removedDuringFlight = sess.State().Count == 0
		return errors.New("后端不可用")
	}

	if err := sess.DeleteComment(context.Background(), 1); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("err = %v, want ErrRequestFailed", err)
	}
	if !removedDuringFlight {
		t.Error("expected optimistic removal before the request settled")
	}

	threads := sess.Threads()
	if len(threads) != 1 || len(threads[0].Replies) != 2 {
		t.Fatalf("restore failed, threads = %+v", threads)
	}
	if sess.State().Total != 3 {
		t.Errorf("total = %d, want 3", sess.State().Total)
	}
}

func TestDeleteReplyAdjustsReplyCount(t *testing.T) {
	item := topDTO(1, 2)
	item.Replies = []*dto.CommentDTO{replyDTO(11, 1, 1), replyDTO(12, 1, 1)}
	gw := &mockCommentGateway{}
	sess := loadSingleThread(t, gw, item, 1)

	gw.deleteComment = func(context.Context, uint64) error { return nil }
	if err := sess.DeleteComment(context.Background(), 11); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}

	threads := sess.Threads()
	if len(threads[0].Replies) != 1 || threads[0].Comment.ReplyCount != 1 {
		t.Errorf("replies/count = %d/%d, want 1/1", len(threads[0].Replies), threads[0].Comment.ReplyCount)
	}
	if sess.State().Total != 1 {
		t.Errorf("total = %d, want 1 (reply deletion does not touch total)", sess.State().Total)
	}
}

func TestReconcileCountsMergesAuthoritativeValues(t *testing.T) {
	gw := &mockCommentGateway{}
	item := topDTO(1, 1)
	sess := loadSingleThread(t, gw, item, 1)

	gw.listComments = func(_ context.Context, q *dto.FeedQueryDTO) (*dto.FeedPageDTO, error) {
		if q.Page != 1 {
			t.Errorf("reconcile page = %d, want 1", q.Page)
		}
		fresh := topDTO(1, 4)
		fresh.LikeCount = 20
		fresh.IsLiked = true
		return &dto.FeedPageDTO{List: []*dto.CommentDTO{fresh}, Total: 2}, nil
	}
	if err := sess.ReconcileCounts(context.Background()); err != nil {
		t.Fatalf("ReconcileCounts: %v", err)
	}

	c := sess.Threads()[0].Comment
	if c.ReplyCount != 4 || c.LikeCount != 20 || !c.IsLiked {
		t.Errorf("merged = %+v", c)
	}
	state := sess.State()
	if state.Total != 2 || state.Finished {
		t.Errorf("total/finished = %d/%v, want 2/false", state.Total, state.Finished)
	}
	if state.Page != 2 {
		t.Errorf("reconcile must not advance page, page = %d", state.Page)
	}
}
