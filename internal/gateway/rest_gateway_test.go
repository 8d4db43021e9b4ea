package gateway_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"Echowall/internal/api"
	"Echowall/internal/api/config"
	"Echowall/internal/api/dto"
	"Echowall/internal/api/handler"
	"Echowall/internal/gateway"
	"Echowall/internal/pkg/consts"
	"Echowall/internal/repository"

	"github.com/gin-gonic/gin"
)

// newStubBackend 启动完整的联调后端，网关走真实 HTTP 往返
func newStubBackend(t *testing.T) (*config.BackendConfig, repository.CommentRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewCommentRepo()
	router := api.SetupRouter(&api.HandlersGroup{
		CommentHandler:      handler.NewCommentHandler(repo),
		AdminCommentHandler: handler.NewAdminCommentHandler(repo),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &config.BackendConfig{BaseURL: srv.URL + "/api", TimeoutSeconds: 5}, repo
}

func TestCommentGatewayRoundTrip(t *testing.T) {
	cfg, _ := newStubBackend(t)
	gw := gateway.NewCommentGateway(cfg)
	ctx := context.Background()

	root, err := gw.CreateComment(ctx, &dto.CommentCreateDTO{
		BizType: "post", BizID: "2001", Content: "一级评论",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if root.CommentID == 0 || root.RootID != root.CommentID {
		t.Errorf("created = %+v", root)
	}

	for i := 0; i < 4; i++ {
		if _, err := gw.CreateComment(ctx, &dto.CommentCreateDTO{
			BizType: "post", BizID: "2001", Content: "回复",
			ParentID: root.CommentID, RootID: root.CommentID, ReplyUserID: root.User.UserID,
		}); err != nil {
			t.Fatalf("CreateComment reply: %v", err)
		}
	}

	page, err := gw.ListComments(ctx, &dto.FeedQueryDTO{
		BizType: "post", BizID: "2001", Page: 1, PageSize: 20, Sort: consts.SortLatest,
	})
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if page.Total != 1 || len(page.List) != 1 {
		t.Fatalf("page = %+v", page)
	}
	item := page.List[0]
	if len(item.Replies) != consts.PreviewReplies {
		t.Errorf("preview replies = %d, want %d", len(item.Replies), consts.PreviewReplies)
	}
	if !item.HasMoreReplies || item.ReplyCount != 4 {
		t.Errorf("has_more/reply_count = %v/%d, want true/4", item.HasMoreReplies, item.ReplyCount)
	}

	replies, err := gw.ListReplies(ctx, root.CommentID, 3, 10)
	if err != nil {
		t.Fatalf("ListReplies: %v", err)
	}
	if len(replies.List) != 1 || replies.ReplyCount != 4 {
		t.Errorf("replies = %d/%d, want 1/4", len(replies.List), replies.ReplyCount)
	}

	if err := gw.ToggleLike(ctx, root.CommentID); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	page, _ = gw.ListComments(ctx, &dto.FeedQueryDTO{
		BizType: "post", BizID: "2001", Page: 1, PageSize: 20,
	})
	if !page.List[0].IsLiked || page.List[0].LikeCount != 1 {
		t.Errorf("like state = %v/%d, want true/1", page.List[0].IsLiked, page.List[0].LikeCount)
	}

	if err := gw.DeleteComment(ctx, root.CommentID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	page, _ = gw.ListComments(ctx, &dto.FeedQueryDTO{
		BizType: "post", BizID: "2001", Page: 1, PageSize: 20,
	})
	if page.Total != 0 {
		t.Errorf("total after delete = %d, want 0", page.Total)
	}
}

func TestCommentGatewayBusinessError(t *testing.T) {
	cfg, _ := newStubBackend(t)
	gw := gateway.NewCommentGateway(cfg)

	// 业务错误通过统一响应的 code 传回，HTTP 状态仍为 200
	if err := gw.ToggleLike(context.Background(), 99999); err == nil {
		t.Fatal("expected business error for unknown comment")
	}
}

func TestAdminGatewayRoundTrip(t *testing.T) {
	cfg, _ := newStubBackend(t)
	gw := gateway.NewCommentGateway(cfg)
	adminGW := gateway.NewAdminGateway(cfg)
	ctx := context.Background()

	a, err := gw.CreateComment(ctx, &dto.CommentCreateDTO{BizType: "post", BizID: "1", Content: "待审核评论"})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	b, err := gw.CreateComment(ctx, &dto.CommentCreateDTO{BizType: "video", BizID: "2", Content: "另一条"})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	page, err := adminGW.ListComments(ctx, &dto.AdminQueryDTO{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("total = %d, want 2", page.Total)
	}

	if err := adminGW.AuditComments(ctx, &dto.CommentAuditDTO{
		CommentIDs: []uint64{a.CommentID}, Status: consts.CommentStatusApproved,
	}); err != nil {
		t.Fatalf("AuditComments: %v", err)
	}

	status := consts.CommentStatusApproved
	page, err = adminGW.ListComments(ctx, &dto.AdminQueryDTO{Status: &status, Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("ListComments by status: %v", err)
	}
	if page.Total != 1 || page.List[0].CommentID != a.CommentID {
		t.Errorf("filtered page = %+v", page)
	}

	// 隐藏必须附带备注
	if err := adminGW.AuditComments(ctx, &dto.CommentAuditDTO{
		CommentIDs: []uint64{b.CommentID}, Status: consts.CommentStatusHidden,
	}); err == nil {
		t.Error("expected error for hide without remark")
	}

	if err := adminGW.UpdateComment(ctx, b.CommentID, &dto.CommentUpdateDTO{Content: "改过的内容"}); err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	item, err := adminGW.GetComment(ctx, b.CommentID)
	if err != nil {
		t.Fatalf("GetComment: %v", err)
	}
	if item.Content != "改过的内容" {
		t.Errorf("content = %q", item.Content)
	}

	stats, err := adminGW.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Total != 2 || stats.Approved != 1 || stats.Pending != 1 {
		t.Errorf("stats = %+v", stats)
	}

	if err := adminGW.BatchDeleteComments(ctx, []uint64{a.CommentID, b.CommentID}); err != nil {
		t.Fatalf("BatchDeleteComments: %v", err)
	}
	page, _ = adminGW.ListComments(ctx, &dto.AdminQueryDTO{Page: 1, PageSize: 20})
	if page.Total != 0 {
		t.Errorf("total after batch delete = %d, want 0", page.Total)
	}
}
