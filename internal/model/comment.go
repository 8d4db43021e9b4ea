package model

// User 评论作者摘要信息
type User struct {
	UserID   uint64 `json:"user_id"`
	NickName string `json:"nick_name"`
	Avatar   string `json:"avatar"`
}

// Comment 单条评论，客户端归一化形态，字段命名与后端线上格式一致。
// ParentID 为 0 表示一级评论；一级评论的 RootID 归一化为自身 ID。
type Comment struct {
	CommentID   uint64 `json:"comment_id"`
	BizType     string `json:"biz_type"`
	BizID       string `json:"biz_id"`
	ParentID    uint64 `json:"parent_id"`
	RootID      uint64 `json:"root_id"`
	User        User   `json:"user"`
	ReplyUserID uint64 `json:"reply_user_id"`
	Content     string `json:"content"`
	IsLiked     bool   `json:"is_liked"`
	LikeCount   int    `json:"like_count"`
	IsTop       bool   `json:"is_top"`
	ReplyCount  int    `json:"reply_count"`
	Status      *int8  `json:"status,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (c *Comment) IsTopLevel() bool {
	return c.ParentID == 0
}

// Thread 渲染视图：一级评论加上当前已加载的回复。
// HasMoreReplies 始终等于 ReplyCount 是否超过已加载条数。
type Thread struct {
	Comment        *Comment
	Replies        []*Comment
	HasMoreReplies bool
}
