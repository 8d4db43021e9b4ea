package service

import (
	"Echowall/internal/api/config"
	"Echowall/internal/api/dto"
	"Echowall/internal/gateway"
	"Echowall/internal/pkg/consts"
	"Echowall/internal/pkg/util"
	"context"
	log "log/slog"
	"sync"
)

// StatusLabel 审核状态对应的展示标签，nil 视为待审核
func StatusLabel(status *int8) string {
	if status == nil {
		return "warning"
	}
	switch *status {
	case consts.CommentStatusApproved:
		return "success"
	case consts.CommentStatusHidden:
		return "danger"
	default:
		return "warning"
	}
}

// AdminTable 管理端评论列表的客户端状态机：
// 筛选、分页、勾选与批量审核/删除，命令成功后就地更新本地数据。
type AdminTable struct {
	mu sync.Mutex
	gw gateway.AdminGateway

	query    dto.AdminQueryDTO
	list     []*dto.CommentDTO
	total    int
	loading  bool
	selected map[uint64]struct{}
}

func NewAdminTable(gw gateway.AdminGateway) *AdminTable {
	pageSize := consts.DefaultPageSize
	if config.Cfg != nil && config.Cfg.Admin.PageSize > 0 {
		pageSize = config.Cfg.Admin.PageSize
	}
	return &AdminTable{
		gw:       gw,
		query:    dto.AdminQueryDTO{Page: 1, PageSize: pageSize},
		selected: make(map[uint64]struct{}),
	}
}

// SetFilters 修改筛选条件，不触发查询
func (t *AdminTable) SetFilters(status *int8, bizType, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query.Status = status
	t.query.BizType = bizType
	t.query.Content = content
}

// ResetFilters 清空筛选条件并回到第一页，由调用方决定何时重新查询
func (t *AdminTable) ResetFilters() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query.Status = nil
	t.query.BizType = ""
	t.query.Content = ""
	t.query.Page = 1
}

// Search 按当前筛选条件从第一页重新查询
func (t *AdminTable) Search(ctx context.Context) error {
	t.mu.Lock()
	t.query.Page = 1
	t.mu.Unlock()
	return t.Load(ctx)
}

// GoToPage 跳转到指定页
func (t *AdminTable) GoToPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	t.mu.Lock()
	t.query.Page = page
	t.mu.Unlock()
	return t.Load(ctx)
}

// Load 按当前查询条件加载列表，重新加载会清空勾选
func (t *AdminTable) Load(ctx context.Context) error {
	t.mu.Lock()
	if t.loading {
		t.mu.Unlock()
		return nil
	}
	t.loading = true
	q := t.query
	t.mu.Unlock()

	page, err := t.gw.ListComments(ctx, &q)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	if err != nil {
		log.ErrorContext(ctx, "加载管理端评论列表失败", "page", q.Page, "err", err)
		return ErrRequestFailed
	}
	t.list = page.List
	t.total = page.Total
	t.selected = make(map[uint64]struct{})
	return nil
}

// Audit 批量审核。status 为隐藏时必须填写备注；
// 成功后就地更新本地行的状态，不重新拉取列表。
func (t *AdminTable) Audit(ctx context.Context, commentIDs []uint64, status int8, remark string) error {
	if len(commentIDs) == 0 {
		return ErrEmptyBatch
	}
	if status == consts.CommentStatusHidden && remark == "" {
		return ErrRemarkRequired
	}

	auditReq := &dto.CommentAuditDTO{CommentIDs: commentIDs, Status: status, Remark: remark}
	if err := t.gw.AuditComments(ctx, auditReq); err != nil {
		log.ErrorContext(ctx, "批量审核评论失败",
			"ids", util.UInt64SliceToStr(commentIDs), "status", status, "err", err)
		return ErrRequestFailed
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make(map[uint64]struct{}, len(commentIDs))
	for _, id := range commentIDs {
		ids[id] = struct{}{}
	}
	for _, item := range t.list {
		if _, ok := ids[item.CommentID]; ok {
			v := status
			item.Status = &v
		}
	}
	return nil
}

// AuditSelected 审核当前勾选的评论并清空勾选
func (t *AdminTable) AuditSelected(ctx context.Context, status int8, remark string) error {
	t.mu.Lock()
	ids := t.selectedIDsLocked()
	t.mu.Unlock()

	if err := t.Audit(ctx, ids, status, remark); err != nil {
		return err
	}

	t.mu.Lock()
	t.selected = make(map[uint64]struct{})
	t.mu.Unlock()
	return nil
}

// Update 修改单条评论内容，成功后就地更新本地行
func (t *AdminTable) Update(ctx context.Context, commentID uint64, content string) error {
	updateReq := &dto.CommentUpdateDTO{Content: content}
	if err := t.gw.UpdateComment(ctx, commentID, updateReq); err != nil {
		log.ErrorContext(ctx, "修改评论失败", "comment_id", commentID, "err", err)
		return ErrRequestFailed
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, item := range t.list {
		if item.CommentID == commentID {
			item.Content = content
			break
		}
	}
	return nil
}

// Delete 删除单条评论，成功后从本地列表移除
func (t *AdminTable) Delete(ctx context.Context, commentID uint64) error {
	if err := t.gw.DeleteComment(ctx, commentID); err != nil {
		log.ErrorContext(ctx, "删除评论失败", "comment_id", commentID, "err", err)
		return ErrRequestFailed
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeLocked(map[uint64]struct{}{commentID: {}}, 1)
	return nil
}

// BatchDelete 批量删除。失败时本地状态不变；
// 成功后移除对应行与勾选，总数按提交条数递减。
func (t *AdminTable) BatchDelete(ctx context.Context, commentIDs []uint64) error {
	if len(commentIDs) == 0 {
		return ErrEmptyBatch
	}
	if err := t.gw.BatchDeleteComments(ctx, commentIDs); err != nil {
		log.ErrorContext(ctx, "批量删除评论失败", "ids", util.UInt64SliceToStr(commentIDs), "err", err)
		return ErrRequestFailed
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make(map[uint64]struct{}, len(commentIDs))
	for _, id := range commentIDs {
		ids[id] = struct{}{}
	}
	t.removeLocked(ids, len(commentIDs))
	return nil
}

// DeleteSelected 删除当前勾选的评论
func (t *AdminTable) DeleteSelected(ctx context.Context) error {
	t.mu.Lock()
	ids := t.selectedIDsLocked()
	t.mu.Unlock()
	return t.BatchDelete(ctx, ids)
}

func (t *AdminTable) removeLocked(ids map[uint64]struct{}, n int) {
	kept := t.list[:0]
	for _, item := range t.list {
		if _, ok := ids[item.CommentID]; ok {
			delete(t.selected, item.CommentID)
			continue
		}
		kept = append(kept, item)
	}
	t.list = kept
	t.total -= n
	if t.total < 0 {
		t.total = 0
	}
}

// Stats 查询评论统计
func (t *AdminTable) Stats(ctx context.Context) (*dto.CommentStatsDTO, error) {
	stats, err := t.gw.GetStats(ctx)
	if err != nil {
		log.ErrorContext(ctx, "查询评论统计失败", "err", err)
		return nil, ErrRequestFailed
	}
	return stats, nil
}

// Get 查询单条评论详情
func (t *AdminTable) Get(ctx context.Context, commentID uint64) (*dto.CommentDTO, error) {
	item, err := t.gw.GetComment(ctx, commentID)
	if err != nil {
		log.ErrorContext(ctx, "查询评论详情失败", "comment_id", commentID, "err", err)
		return nil, ErrRequestFailed
	}
	return item, nil
}

// Select 勾选一条当前页的评论，不在当前页的 ID 被忽略
func (t *AdminTable) Select(commentID uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, item := range t.list {
		if item.CommentID == commentID {
			t.selected[commentID] = struct{}{}
			return
		}
	}
}

// Deselect 取消勾选
func (t *AdminTable) Deselect(commentID uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.selected, commentID)
}

// SelectAll 勾选当前页全部评论
func (t *AdminTable) SelectAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, item := range t.list {
		t.selected[item.CommentID] = struct{}{}
	}
}

// ClearSelection 清空勾选
func (t *AdminTable) ClearSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = make(map[uint64]struct{})
}

// SelectedIDs 当前勾选的评论 ID，按列表顺序返回
func (t *AdminTable) SelectedIDs() []uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selectedIDsLocked()
}

func (t *AdminTable) selectedIDsLocked() []uint64 {
	ids := make([]uint64, 0, len(t.selected))
	for _, item := range t.list {
		if _, ok := t.selected[item.CommentID]; ok {
			ids = append(ids, item.CommentID)
		}
	}
	return ids
}

// Rows 当前页数据
func (t *AdminTable) Rows() []*dto.CommentDTO {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.list
}

// Total 当前筛选条件下的总条数
func (t *AdminTable) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Query 当前查询条件快照
func (t *AdminTable) Query() dto.AdminQueryDTO {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query
}
