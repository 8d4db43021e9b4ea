package handler

import (
	"Echowall/internal/api/dto"
	"Echowall/internal/model"
	"Echowall/internal/pkg/consts"
	"Echowall/internal/pkg/response"
	"Echowall/internal/repository"
	"Echowall/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type CommentHandler struct {
	repo repository.CommentRepo
}

func NewCommentHandler(repo repository.CommentRepo) *CommentHandler {
	return &CommentHandler{
		repo: repo,
	}
}

func toCommentDTO(c *model.Comment) *dto.CommentDTO {
	d := &dto.CommentDTO{}
	_ = copier.Copy(d, c)
	return d
}

// ListComments 分页查询一级评论，每条内嵌最多 3 条回复预览
func (s *CommentHandler) ListComments(c *gin.Context) {
	var q dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = consts.DefaultPageSize
	}
	userID := c.GetUint64("user_id")
	ctx := c.Request.Context()

	tops, total, err := s.repo.ListTop(ctx, q.BizType, q.BizID, q.Sort, (q.Page-1)*q.PageSize, q.PageSize, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.CommentDTO, 0, len(tops))
	for _, top := range tops {
		item := toCommentDTO(top)
		replies, replyTotal, err := s.repo.RepliesOf(ctx, top.CommentID, 0, consts.PreviewReplies, userID)
		if err == nil {
			for _, r := range replies {
				item.Replies = append(item.Replies, toCommentDTO(r))
			}
			item.ReplyCount = replyTotal
			item.HasMoreReplies = replyTotal > len(replies)
		}
		list = append(list, item)
	}
	response.Success(c, &dto.FeedPageDTO{List: list, Total: total})
}

// ListReplies 按偏移量分页查询某条一级评论下的回复
func (s *CommentHandler) ListReplies(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil || commentID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var q dto.ReplyQueryDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if q.Limit <= 0 {
		q.Limit = consts.DefaultReplyPageSize
	}
	userID := c.GetUint64("user_id")

	replies, total, err := s.repo.RepliesOf(c.Request.Context(), commentID, q.Offset, q.Limit, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.CommentDTO, 0, len(replies))
	for _, r := range replies {
		list = append(list, toCommentDTO(r))
	}
	response.Success(c, &dto.ReplyPageDTO{List: list, ReplyCount: total})
}

// CreateComment 发布评论或回复
func (s *CommentHandler) CreateComment(c *gin.Context) {
	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	userID := c.GetUint64("user_id")

	created, err := s.repo.Create(c.Request.Context(), &model.Comment{
		BizType:     req.BizType,
		BizID:       req.BizID,
		ParentID:    req.ParentID,
		RootID:      req.RootID,
		User:        repository.DemoUser(userID),
		ReplyUserID: req.ReplyUserID,
		Content:     req.Content,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toCommentDTO(created))
}

// ToggleLike 点赞/取消点赞评论
func (s *CommentHandler) ToggleLike(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil || commentID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	liked, count, err := s.repo.ToggleLike(c.Request.Context(), commentID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"is_liked": liked, "like_count": count})
}

// DeleteComment 删除评论，一级评论连带其下回复
func (s *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil || commentID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.repo.Delete(c.Request.Context(), commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
