package dto

// AdminQueryDTO 管理端评论筛选参数，指针字段为 nil 表示不过滤
type AdminQueryDTO struct {
	Status   *int8  `json:"status,omitempty" form:"status"`
	BizType  string `json:"biz_type,omitempty" form:"biz_type"`
	Content  string `json:"content,omitempty" form:"content"`
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"page_size" form:"page_size"`
}

// AdminPageDTO 管理端评论分页结果
type AdminPageDTO struct {
	List  []*CommentDTO `json:"list"`
	Total int           `json:"total"`
}

// CommentAuditDTO 批量审核请求，status 0 隐藏 1 通过
type CommentAuditDTO struct {
	CommentIDs []uint64 `json:"comment_ids" binding:"required,min=1" validate:"required,min=1"`
	Status     int8     `json:"status" binding:"oneof=0 1" validate:"oneof=0 1"`
	Remark     string   `json:"remark"`
}

// CommentUpdateDTO 管理端修改评论内容请求
type CommentUpdateDTO struct {
	Content string `json:"content" binding:"required,min=1,max=1000" validate:"required,min=1,max=1000"`
}

// BatchDeleteDTO 批量删除请求
type BatchDeleteDTO struct {
	CommentIDs []uint64 `json:"comment_ids" binding:"required,min=1" validate:"required,min=1"`
}

// CommentStatsDTO 管理端评论统计
type CommentStatsDTO struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Hidden   int64 `json:"hidden"`
}
