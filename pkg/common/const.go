package common

// cache keys
const (
	KEY_STOCK_QUOTE  = "stock_quote:%s"
	KEY_SYSTEM_PARAM = "system_param:%s"
	KEY_SESSION      = "session:%s"
)

// chat provider names
const (
	PROVIDER_OPENAI  = "openai"
	PROVIDER_CODEGPT = "codegpt"
	PROVIDER_GEMINI  = "gemini"
)

// system parameter names
const (
	SYS_PARAM_CHART_PERIODS = "chart_periods"
)
