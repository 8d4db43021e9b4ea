package consts

// 评论列表排序方式
const (
	SortLatest  = "latest"
	SortHottest = "hottest"
	SortOldest  = "oldest"
)

// 评论审核状态（与后端编码一致，未设置视为待审核）
const (
	CommentStatusHidden   int8 = 0
	CommentStatusApproved int8 = 1
	CommentStatusPending  int8 = 2
)

const (
	DefaultPageSize      = 20
	DefaultReplyPageSize = 10
	// PreviewReplies 列表接口内嵌返回的回复预览条数上限
	PreviewReplies = 3
)

// DefaultRecountSpec 计数对账定时任务的默认执行间隔
const DefaultRecountSpec = "@every 5m"
