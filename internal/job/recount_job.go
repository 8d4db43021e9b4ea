package job

import (
	"Echowall/internal/pkg/logger"
	"Echowall/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// RecountJob 周期性用服务端权威计数对账各会话的本地状态，
// 修正乐观更新长期累计出的回复数/点赞数偏差。
type RecountJob struct {
	registry *service.SessionRegistry
}

func NewRecountJob(registry *service.SessionRegistry) *RecountJob {
	return &RecountJob{
		registry: registry,
	}
}

func (s *RecountJob) Run() {
	traceID := "job-recount-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	total := 0
	successCount := 0
	s.registry.ForEach(func(sess *service.FeedSession) {
		total++
		if err := sess.ReconcileCounts(ctx); err != nil {
			bizType, bizID := sess.Subject()
			log.ErrorContext(ctx, "对账评论计数失败", "biz_type", bizType, "biz_id", bizID, "err", err)
			return
		}
		successCount++
	})

	log.InfoContext(ctx, "评论计数对账完成",
		"total_count", total,
		"success_count", successCount)
}
