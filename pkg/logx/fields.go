package logx

const (
	FieldAppName      = "app-name"
	FieldAppVersion   = "app-version"
	FieldAttempt      = "attempt"
	FieldBudget       = "retry-budget"
	FieldDurationMs   = "duration-ms"
	FieldError        = "error"
	FieldHTTPRequest  = "http-request"
	FieldHTTPResponse = "http-response"
	FieldIntent       = "intent"
	FieldItemName     = "item-name"
	FieldMode         = "mode"
	FieldProfit       = "profit"
	FieldRequestBody  = "request-body"
	FieldRequestID    = "request-id"
	FieldResponseBody = "response-body"
	FieldRetryAfter   = "retry-after"
	FieldRunID        = "run-id"
	FieldSKU          = "sku"
	FieldStatus       = "status"
	FieldUpstream     = "upstream"
	FieldURL          = "url"
	FieldWeapon       = "weapon"
)
