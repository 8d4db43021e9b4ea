package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"Echowall/internal/api/dto"
	"Echowall/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func newTestRouter(t *testing.T) (*gin.Engine, repository.CommentRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewCommentRepo()
	r := gin.New()

	commentHandler := NewCommentHandler(repo)
	group := r.Group("/api/comments")
	group.Use(func(c *gin.Context) {
		// 与 IdentityMiddleware 一致的联调身份注入
		userID := uint64(1001)
		if v := c.GetHeader("X-User-ID"); v == "2002" {
			userID = 2002
		}
		c.Set("user_id", userID)
	})
	group.GET("", commentHandler.ListComments)
	group.POST("", commentHandler.CreateComment)
	group.PUT("/:comment_id/like", commentHandler.ToggleLike)

	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, userID string) *dto.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: status = %d", method, path, w.Code)
	}
	var resp dto.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return &resp
}

func TestLikeStateIsPerViewer(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/api/comments",
		`{"biz_type":"post","biz_id":"1","content":"评论"}`, "")
	if resp.Code != 200 {
		t.Fatalf("create code = %d, message = %s", resp.Code, resp.Message)
	}
	var created dto.CommentDTO
	raw, _ := json.Marshal(resp.Data)
	_ = json.Unmarshal(raw, &created)

	likePath := "/api/comments/" + strconv.FormatUint(created.CommentID, 10) + "/like"
	if resp := doJSON(t, r, http.MethodPut, likePath, "", ""); resp.Code != 200 {
		t.Fatalf("like code = %d", resp.Code)
	}

	listFor := func(userID string) *dto.CommentDTO {
		resp := doJSON(t, r, http.MethodGet, "/api/comments?biz_type=post&biz_id=1", "", userID)
		var page dto.FeedPageDTO
		raw, _ := json.Marshal(resp.Data)
		_ = json.Unmarshal(raw, &page)
		if len(page.List) != 1 {
			t.Fatalf("list = %d entries", len(page.List))
		}
		return page.List[0]
	}

	if got := listFor(""); !got.IsLiked || got.LikeCount != 1 {
		t.Errorf("liker view = %v/%d, want true/1", got.IsLiked, got.LikeCount)
	}
	if got := listFor("2002"); got.IsLiked || got.LikeCount != 1 {
		t.Errorf("other view = %v/%d, want false/1", got.IsLiked, got.LikeCount)
	}
}

func TestCreateCommentValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/api/comments",
		`{"biz_type":"post","biz_id":"1","content":""}`, "")
	if resp.Code != 400 {
		t.Errorf("code = %d, want 400", resp.Code)
	}
}
