package gateway

import (
	"Echowall/internal/api/config"
	"Echowall/internal/api/dto"
	"Echowall/internal/pkg/logger"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// newRestClient 构建指向评论后端的底层客户端，公开端与管理端共用
func newRestClient(cfg *config.BackendConfig) *resty.Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetTransport(&logger.APITransport{Transport: http.DefaultTransport})

	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		traceID, _ := req.Context().Value(logger.TraceIDKey).(string)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		req.SetHeader("X-Trace-ID", traceID)
		return nil
	})

	return client
}

// execute 发起请求并拆解统一响应结构 {code, message, data}
func execute(ctx context.Context, req *resty.Request, method, path string, out any) error {
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		return errors.Wrap(err, "评论服务请求失败")
	}
	if resp.StatusCode() != http.StatusOK {
		return errors.Errorf("评论服务返回异常状态码 %d", resp.StatusCode())
	}

	var env struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return errors.Wrap(err, "解析评论服务响应失败")
	}
	if env.Code != http.StatusOK {
		return errors.Errorf("评论服务业务错误 %d: %s", env.Code, env.Message)
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrap(err, "解析评论服务数据失败")
		}
	}
	return nil
}

type restCommentGateway struct {
	client *resty.Client
}

func NewCommentGateway(cfg *config.BackendConfig) CommentGateway {
	return &restCommentGateway{client: newRestClient(cfg)}
}

func (s *restCommentGateway) ListComments(ctx context.Context, q *dto.FeedQueryDTO) (*dto.FeedPageDTO, error) {
	var page dto.FeedPageDTO
	req := s.client.R().SetQueryParams(map[string]string{
		"biz_type":  q.BizType,
		"biz_id":    q.BizID,
		"page":      strconv.Itoa(q.Page),
		"page_size": strconv.Itoa(q.PageSize),
		"sort":      q.Sort,
	})
	if err := execute(ctx, req, http.MethodGet, "/comments", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *restCommentGateway) ListReplies(ctx context.Context, commentID uint64, offset, limit int) (*dto.ReplyPageDTO, error) {
	var page dto.ReplyPageDTO
	req := s.client.R().SetQueryParams(map[string]string{
		"offset": strconv.Itoa(offset),
		"limit":  strconv.Itoa(limit),
	})
	path := fmt.Sprintf("/comments/%d/replies", commentID)
	if err := execute(ctx, req, http.MethodGet, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *restCommentGateway) CreateComment(ctx context.Context, createReq *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	var created dto.CommentDTO
	req := s.client.R().SetBody(createReq)
	if err := execute(ctx, req, http.MethodPost, "/comments", &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *restCommentGateway) ToggleLike(ctx context.Context, commentID uint64) error {
	path := fmt.Sprintf("/comments/%d/like", commentID)
	return execute(ctx, s.client.R(), http.MethodPut, path, nil)
}

func (s *restCommentGateway) DeleteComment(ctx context.Context, commentID uint64) error {
	path := fmt.Sprintf("/comments/%d", commentID)
	return execute(ctx, s.client.R(), http.MethodDelete, path, nil)
}
