package wire

import (
	"Echowall/internal/api"
	"Echowall/internal/api/config"
	"Echowall/internal/api/handler"
	"Echowall/internal/gateway"
	"Echowall/internal/job"
	"Echowall/internal/pkg/cron"
	"Echowall/internal/repository"
	"Echowall/internal/service"

	"github.com/gin-gonic/gin"
)

// StubServerContainer 本地联调后端运行所需的顶级组件
type StubServerContainer struct {
	Router *gin.Engine
	Repo   repository.CommentRepo
}

func BuildStubServer() *StubServerContainer {
	repo := repository.NewCommentRepo()
	repository.SeedDemoData(repo)

	handlers := &api.HandlersGroup{
		CommentHandler:      handler.NewCommentHandler(repo),
		AdminCommentHandler: handler.NewAdminCommentHandler(repo),
	}

	return &StubServerContainer{
		Router: api.SetupRouter(handlers),
		Repo:   repo,
	}
}

// ClientContainer 评论流客户端运行所需的顶级组件
type ClientContainer struct {
	Gateway  gateway.CommentGateway
	Sessions *service.SessionRegistry
	Admin    *service.AdminTable
	CronMgr  *cron.Manager
}

func BuildClient(cfg *config.Config) *ClientContainer {
	commentGW := gateway.NewCommentGateway(&cfg.Backend)
	adminGW := gateway.NewAdminGateway(&cfg.Backend)

	registry := service.NewSessionRegistry()
	recountJob := job.NewRecountJob(registry)
	cronMgr := cron.NewCronManager(recountJob)

	return &ClientContainer{
		Gateway:  commentGW,
		Sessions: registry,
		Admin:    service.NewAdminTable(adminGW),
		CronMgr:  cronMgr,
	}
}

// NewSession 创建并登记一个评论流会话，交给对账任务周期巡检
func (s *ClientContainer) NewSession(bizType, bizID string) *service.FeedSession {
	sess := service.NewFeedSession(s.Gateway, bizType, bizID)
	s.Sessions.Register(sess)
	return sess
}
