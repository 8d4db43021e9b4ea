package repository

import (
	"Echowall/internal/model"
	"Echowall/internal/pkg/consts"
	"context"
	"fmt"
	log "log/slog"
)

var demoUsers = []model.User{
	{UserID: 1001, NickName: "青衫", Avatar: "https://cdn.example.com/avatar/1001.png"},
	{UserID: 1002, NickName: "木鱼", Avatar: "https://cdn.example.com/avatar/1002.png"},
	{UserID: 1003, NickName: "晚风", Avatar: "https://cdn.example.com/avatar/1003.png"},
	{UserID: 1004, NickName: "拾遗", Avatar: "https://cdn.example.com/avatar/1004.png"},
}

// DemoUser 根据用户 ID 还原演示账号信息，未知 ID 生成占位昵称
func DemoUser(userID uint64) model.User {
	for _, u := range demoUsers {
		if u.UserID == userID {
			return u
		}
	}
	return model.User{
		UserID:   userID,
		NickName: fmt.Sprintf("用户%d", userID),
	}
}

// SeedDemoData 写入联调用的演示数据：两个主题、带多级回复与不同审核状态
func SeedDemoData(repo CommentRepo) {
	ctx := context.Background()

	approved := make([]uint64, 0)
	for i := 0; i < 6; i++ {
		author := demoUsers[i%len(demoUsers)]
		c, err := repo.Create(ctx, &model.Comment{
			BizType: "post",
			BizID:   "2001",
			User:    author,
			Content: fmt.Sprintf("这是第 %d 条演示评论，欢迎讨论。", i+1),
			IsTop:   i == 0,
		})
		if err != nil {
			log.Error("写入演示评论失败", "err", err)
			continue
		}
		approved = append(approved, c.CommentID)

		for j := 0; j < i; j++ {
			replier := demoUsers[(i+j+1)%len(demoUsers)]
			r, err := repo.Create(ctx, &model.Comment{
				BizType:     "post",
				BizID:       "2001",
				ParentID:    c.CommentID,
				RootID:      c.CommentID,
				User:        replier,
				ReplyUserID: author.UserID,
				Content:     fmt.Sprintf("回复楼主：第 %d 条回复。", j+1),
			})
			if err != nil {
				log.Error("写入演示回复失败", "err", err)
				continue
			}
			approved = append(approved, r.CommentID)
		}
	}

	// 另一个主题留少量待审核数据，方便验证管理端筛选
	if c, err := repo.Create(ctx, &model.Comment{
		BizType: "video",
		BizID:   "3001",
		User:    demoUsers[1],
		Content: "视频拍得真好，期待下一期。",
	}); err == nil {
		if _, err := repo.Audit(ctx, []uint64{c.CommentID}, consts.CommentStatusHidden, "演示：违规隐藏"); err != nil {
			log.Error("写入演示审核状态失败", "err", err)
		}
	}
	_, _ = repo.Create(ctx, &model.Comment{
		BizType: "video",
		BizID:   "3001",
		User:    demoUsers[2],
		Content: "前排围观，这条还在待审核。",
	})

	if _, err := repo.Audit(ctx, approved, consts.CommentStatusApproved, ""); err != nil {
		log.Error("写入演示审核状态失败", "err", err)
	}
}
