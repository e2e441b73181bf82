package logger

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"
)

const (
	esBodyLimit     = 1000
	esSlowThreshold = 500 * time.Millisecond
)

// ESTransport 记录 Elasticsearch 请求耗时与报文
type ESTransport struct {
	Transport http.RoundTripper
}

func (t *ESTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	reqBody := drainBody(&req.Body)

	resp, err := t.Transport.RoundTrip(req)
	elapsed := time.Since(start)

	fields := []any{
		log.String("method", req.Method),
		log.String("path", req.URL.Path),
		log.Duration("latency", elapsed),
		log.String("req_body", truncate(reqBody, esBodyLimit)),
	}

	if err != nil {
		log.ErrorContext(req.Context(), "ES_REQUEST_ERROR", append(fields, log.Any("err", err))...)
		return nil, err
	}

	fields = append(fields, log.Int("status", resp.StatusCode))
	switch {
	case resp.StatusCode >= http.StatusBadRequest:
		fields = append(fields, log.String("res_body", truncate(drainBody(&resp.Body), esBodyLimit)))
		log.WarnContext(req.Context(), "ES_REQUEST_FAILED", fields...)
	case elapsed > esSlowThreshold:
		log.WarnContext(req.Context(), "ES_REQUEST_SLOW", fields...)
	default:
		log.DebugContext(req.Context(), "ES_REQUEST", fields...)
	}

	return resp, nil
}

// drainBody 读出 body 后放回一个可重复读取的副本
func drainBody(body *io.ReadCloser) string {
	if *body == nil || *body == http.NoBody {
		return ""
	}
	data, _ := io.ReadAll(*body)
	_ = (*body).Close()
	*body = io.NopCloser(bytes.NewReader(data))
	return string(data)
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit] + "...[truncated]"
	}
	return s
}
