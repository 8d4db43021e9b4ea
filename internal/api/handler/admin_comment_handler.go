package handler

import (
	"Echowall/internal/api/dto"
	"Echowall/internal/pkg/consts"
	"Echowall/internal/pkg/response"
	"Echowall/internal/repository"
	"Echowall/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AdminCommentHandler struct {
	repo repository.CommentRepo
}

func NewAdminCommentHandler(repo repository.CommentRepo) *AdminCommentHandler {
	return &AdminCommentHandler{
		repo: repo,
	}
}

// ListComments 管理端按状态/业务类型/内容关键字筛选评论
func (s *AdminCommentHandler) ListComments(c *gin.Context) {
	var q dto.AdminQueryDTO
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

	list, total, err := s.repo.AdminList(c.Request.Context(),
		q.Status, q.BizType, q.Content, (q.Page-1)*q.PageSize, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]*dto.CommentDTO, 0, len(list))
	for _, item := range list {
		items = append(items, toCommentDTO(item))
	}
	response.Success(c, &dto.AdminPageDTO{List: items, Total: total})
}

// GetComment 查询单条评论详情
func (s *AdminCommentHandler) GetComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil || commentID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	item, err := s.repo.GetByID(c.Request.Context(), commentID, 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toCommentDTO(item))
}

// AuditComments 批量审核，隐藏操作必须附带备注
func (s *AdminCommentHandler) AuditComments(c *gin.Context) {
	var req dto.CommentAuditDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if req.Status == consts.CommentStatusHidden && req.Remark == "" {
		response.Error(c, service.ErrRemarkRequired)
		return
	}

	updated, err := s.repo.Audit(c.Request.Context(), req.CommentIDs, req.Status, req.Remark)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"updated": updated})
}

// UpdateComment 修改评论内容
func (s *AdminCommentHandler) UpdateComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil || commentID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.CommentUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.repo.UpdateContent(c.Request.Context(), commentID, req.Content); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteComment 管理端删除单条评论
func (s *AdminCommentHandler) DeleteComment(c *gin.Context) {
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

// BatchDeleteComments 批量删除评论
func (s *AdminCommentHandler) BatchDeleteComments(c *gin.Context) {
	var req dto.BatchDeleteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	deleted, err := s.repo.BatchDelete(c.Request.Context(), req.CommentIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}

// GetStats 评论状态统计
func (s *AdminCommentHandler) GetStats(c *gin.Context) {
	stats, err := s.repo.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.CommentStatsDTO{
		Total:    stats.Total,
		Pending:  stats.Pending,
		Approved: stats.Approved,
		Hidden:   stats.Hidden,
	})
}
