package llm

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// VendorParamsTransport 为 chat/completions 请求补全厂商私有参数
type VendorParamsTransport struct {
	Base         http.RoundTripper
	ThinkingMode string
}

func (m *VendorParamsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if m.ThinkingMode == "" || req.Body == nil || !strings.Contains(req.URL.Path, "chat/completions") {
		return m.base().RoundTrip(req)
	}

	body, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err = json.Unmarshal(body, &data); err != nil {
		req.Body = io.NopCloser(bytes.NewReader(body))
		return m.base().RoundTrip(req)
	}

	// 评分不需要思考过程
	data["thinking"] = map[string]interface{}{
		"type": m.ThinkingMode,
	}

	newBody, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(newBody))
	req.ContentLength = int64(len(newBody))

	return m.base().RoundTrip(req)
}

func (m *VendorParamsTransport) base() http.RoundTripper {
	if m.Base == nil {
		return http.DefaultTransport
	}
	return m.Base
}
