package gateway

import (
	"Echowall/internal/api/dto"
	"context"
)

// CommentGateway 评论后端的公开接口边界，实现方只需给出成功载荷或失败原因
type CommentGateway interface {
	ListComments(ctx context.Context, q *dto.FeedQueryDTO) (*dto.FeedPageDTO, error)
	ListReplies(ctx context.Context, commentID uint64, offset, limit int) (*dto.ReplyPageDTO, error)
	CreateComment(ctx context.Context, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	ToggleLike(ctx context.Context, commentID uint64) error
	DeleteComment(ctx context.Context, commentID uint64) error
}

// AdminGateway 评论后端的管理端接口边界
type AdminGateway interface {
	ListComments(ctx context.Context, q *dto.AdminQueryDTO) (*dto.AdminPageDTO, error)
	GetComment(ctx context.Context, commentID uint64) (*dto.CommentDTO, error)
	AuditComments(ctx context.Context, req *dto.CommentAuditDTO) error
	UpdateComment(ctx context.Context, commentID uint64, req *dto.CommentUpdateDTO) error
	DeleteComment(ctx context.Context, commentID uint64) error
	BatchDeleteComments(ctx context.Context, commentIDs []uint64) error
	GetStats(ctx context.Context) (*dto.CommentStatsDTO, error)
}
