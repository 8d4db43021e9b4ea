package cron

import (
	"Echowall/internal/api/config"
	"Echowall/internal/job"
	"Echowall/internal/pkg/consts"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine     *cron.Cron
	recountJob *job.RecountJob
}

func NewCronManager(recountJob *job.RecountJob) *Manager {
	return &Manager{
		engine:     cron.New(cron.WithSeconds()),
		recountJob: recountJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	spec := consts.DefaultRecountSpec
	if config.Cfg != nil && config.Cfg.Feed.RecountSpec != "" {
		spec = config.Cfg.Feed.RecountSpec
	}
	if _, err := s.engine.AddJob(spec, s.recountJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
