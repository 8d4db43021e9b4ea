package gateway

import (
	"Echowall/internal/api/config"
	"Echowall/internal/api/dto"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
)

type restAdminGateway struct {
	client *resty.Client
}

func NewAdminGateway(cfg *config.BackendConfig) AdminGateway {
	return &restAdminGateway{client: newRestClient(cfg)}
}

func (s *restAdminGateway) ListComments(ctx context.Context, q *dto.AdminQueryDTO) (*dto.AdminPageDTO, error) {
	req := s.client.R().SetQueryParams(map[string]string{
		"page":      strconv.Itoa(q.Page),
		"page_size": strconv.Itoa(q.PageSize),
	})
	// 过滤字段为空时不传，语义为查全部
	if q.Status != nil {
		req.SetQueryParam("status", strconv.Itoa(int(*q.Status)))
	}
	if q.BizType != "" {
		req.SetQueryParam("biz_type", q.BizType)
	}
	if q.Content != "" {
		req.SetQueryParam("content", q.Content)
	}

	var page dto.AdminPageDTO
	if err := execute(ctx, req, http.MethodGet, "/admin/comments", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *restAdminGateway) GetComment(ctx context.Context, commentID uint64) (*dto.CommentDTO, error) {
	var item dto.CommentDTO
	path := fmt.Sprintf("/admin/comments/%d", commentID)
	if err := execute(ctx, s.client.R(), http.MethodGet, path, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *restAdminGateway) AuditComments(ctx context.Context, auditReq *dto.CommentAuditDTO) error {
	req := s.client.R().SetBody(auditReq)
	return execute(ctx, req, http.MethodPut, "/admin/comments/audit", nil)
}

func (s *restAdminGateway) UpdateComment(ctx context.Context, commentID uint64, updateReq *dto.CommentUpdateDTO) error {
	req := s.client.R().SetBody(updateReq)
	path := fmt.Sprintf("/admin/comments/%d", commentID)
	return execute(ctx, req, http.MethodPut, path, nil)
}

func (s *restAdminGateway) DeleteComment(ctx context.Context, commentID uint64) error {
	path := fmt.Sprintf("/admin/comments/%d", commentID)
	return execute(ctx, s.client.R(), http.MethodDelete, path, nil)
}

func (s *restAdminGateway) BatchDeleteComments(ctx context.Context, commentIDs []uint64) error {
	req := s.client.R().SetBody(&dto.BatchDeleteDTO{CommentIDs: commentIDs})
	return execute(ctx, req, http.MethodDelete, "/admin/comments/batch", nil)
}

func (s *restAdminGateway) GetStats(ctx context.Context) (*dto.CommentStatsDTO, error) {
	var stats dto.CommentStatsDTO
	if err := execute(ctx, s.client.R(), http.MethodGet, "/admin/comments/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
