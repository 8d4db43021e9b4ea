package logger

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"
)

// APITransport 记录所有发往评论后端的请求
type APITransport struct {
	Transport http.RoundTripper
}

func (t *APITransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	var reqBody []byte
	if req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(reqBody))
	}

	rt := t.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}

	resp, err := rt.RoundTrip(req)
	elapsed := time.Since(start)

	fields := []any{
		log.String("method", req.Method),
		log.String("url", req.URL.String()),
		log.Duration("latency", elapsed),
	}

	limit := 1000
	reqStr := string(reqBody)
	if len(reqStr) > limit {
		reqStr = reqStr[:limit] + "...[truncated]"
	}
	fields = append(fields, log.String("req_body", reqStr))

	if err != nil {
		log.ErrorContext(req.Context(), "API_CALL_ERROR", append(fields, log.Any("err", err))...)
		return nil, err
	}

	fields = append(fields, log.Int("status", resp.StatusCode))

	if elapsed > 500*time.Millisecond {
		log.WarnContext(req.Context(), "API_CALL_SLOW", fields...)
	} else {
		log.InfoContext(req.Context(), "API_CALL", fields...)
	}

	return resp, nil
}
