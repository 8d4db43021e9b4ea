package main

import (
	"Echowall/internal/api/config"
	"Echowall/internal/model"
	"Echowall/internal/pkg/consts"
	"Echowall/internal/pkg/cron"
	"Echowall/internal/pkg/logger"
	"Echowall/internal/service"
	"Echowall/internal/wire"
	"context"
	"flag"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	bizType := flag.String("biz_type", "post", "评论主题类型")
	bizID := flag.String("biz_id", "2001", "评论主题 ID")
	sortBy := flag.String("sort", consts.SortLatest, "排序方式: latest / hottest / oldest")
	expand := flag.Bool("expand", true, "是否展开全部回复")
	watch := flag.Bool("watch", false, "持续运行并周期性对账计数")
	flag.Parse()

	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	logger.InitLogger()

	app := wire.BuildClient(config.Cfg)
	sess := app.NewSession(*bizType, *bizID)
	sess.Reset(*sortBy)

	ctx := context.Background()

	// 逐页拉取直至加载完毕
	for !sess.State().Finished {
		if err := sess.LoadNext(ctx); err != nil {
			log.Error("加载评论失败", "err", err)
			os.Exit(1)
		}
	}

	if *expand {
		expandAll(ctx, sess)
	}

	printFeed(sess)

	if *watch {
		if err := cron.InitCron(app.CronMgr); err != nil {
			log.Error("启动定时任务失败", "err", err)
			os.Exit(1)
		}
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		app.CronMgr.Stop()
	}
}

// expandAll 对每条还有未加载回复的一级评论持续翻页，直到全部展开
func expandAll(ctx context.Context, sess *service.FeedSession) {
	for {
		expanded := false
		for _, t := range sess.Threads() {
			if !t.HasMoreReplies {
				continue
			}
			if err := sess.ExpandReplies(ctx, t.Comment.CommentID); err != nil {
				log.Error("展开回复失败", "comment_id", t.Comment.CommentID, "err", err)
				return
			}
			expanded = true
		}
		if !expanded {
			return
		}
	}
}

func printFeed(sess *service.FeedSession) {
	state := sess.State()
	fmt.Printf("共 %d 条评论（已加载 %d 条一级评论）\n\n", state.Total, state.Count)

	for _, t := range sess.Threads() {
		printComment(t.Comment, "")
		for _, r := range t.Replies {
			printComment(r, "    ")
		}
		if t.HasMoreReplies {
			fmt.Printf("    ... 还有更多回复（共 %d 条）\n", t.Comment.ReplyCount)
		}
		fmt.Println()
	}
}

func printComment(c *model.Comment, indent string) {
	pin := ""
	if c.IsTop {
		pin = "[置顶] "
	}
	like := ""
	if c.LikeCount > 0 {
		like = fmt.Sprintf(" 👍%d", c.LikeCount)
	}
	fmt.Printf("%s%s%s（#%d %s）: %s%s\n",
		indent, pin, c.User.NickName, c.CommentID, c.CreatedAt, c.Content, like)
}
