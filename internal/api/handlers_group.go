package api

import "Echowall/internal/api/handler"

// HandlersGroup 路由注册所需的全部处理器
type HandlersGroup struct {
	CommentHandler      *handler.CommentHandler
	AdminCommentHandler *handler.AdminCommentHandler
}
