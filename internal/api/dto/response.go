package dto

// Response 统一返回结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// GateDeniedDTO 提交被拦截时返回
type GateDeniedDTO struct {
	Reason     string  `json:"reason"`
	RetryAfter *string `json:"retry_after,omitempty"`
}
