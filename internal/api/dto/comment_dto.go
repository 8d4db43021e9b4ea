package dto

// FeedQueryDTO 评论列表查询参数
type FeedQueryDTO struct {
	BizType  string `json:"biz_type" form:"biz_type" binding:"required"`
	BizID    string `json:"biz_id" form:"biz_id" binding:"required"`
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"page_size" form:"page_size"`
	Sort     string `json:"sort" form:"sort"`
}

// CommentDTO 评论返回详情，列表接口内嵌最多 3 条回复预览
type CommentDTO struct {
	CommentID   uint64 `json:"comment_id"`
	BizType     string `json:"biz_type"`
	BizID       string `json:"biz_id"`
	ParentID    uint64 `json:"parent_id"`
	RootID      uint64 `json:"root_id"`
	User        UserDTO `json:"user"`
	ReplyUserID uint64  `json:"reply_user_id"`
	Content     string  `json:"content"`
	IsLiked     bool    `json:"is_liked"`
	LikeCount   int     `json:"like_count"`
	IsTop       bool    `json:"is_top"`
	ReplyCount  int     `json:"reply_count"`
	Status      *int8   `json:"status,omitempty"`
	CreatedAt   string  `json:"created_at"`

	Replies        []*CommentDTO `json:"replies,omitempty"`
	HasMoreReplies bool          `json:"has_more_replies"`
}

// UserDTO 评论作者摘要
type UserDTO struct {
	UserID   uint64 `json:"user_id"`
	NickName string `json:"nick_name"`
	Avatar   string `json:"avatar"`
}

// FeedPageDTO 一页一级评论
type FeedPageDTO struct {
	List  []*CommentDTO `json:"list"`
	Total int           `json:"total"`
}

// ReplyPageDTO 某条一级评论下的一页回复，ReplyCount 为服务端权威回复总数
type ReplyPageDTO struct {
	List       []*CommentDTO `json:"list"`
	ReplyCount int           `json:"reply_count"`
}

// ReplyQueryDTO 回复分页查询参数
type ReplyQueryDTO struct {
	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

// CommentCreateDTO 发布评论/回复请求
type CommentCreateDTO struct {
	BizType     string `json:"biz_type" form:"biz_type" binding:"required" validate:"required"`
	BizID       string `json:"biz_id" form:"biz_id" binding:"required" validate:"required"`
	Content     string `json:"content" binding:"required,min=1,max=1000" validate:"required,min=1,max=1000"`
	ParentID    uint64 `json:"parent_id"`
	RootID      uint64 `json:"root_id"`
	ReplyUserID uint64 `json:"reply_user_id"`
}
