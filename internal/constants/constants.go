package constants

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyTaskID    = "task_id"
	ContextKeyRequestID = "request_id"
)

// Header names
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	BearerScheme        = "Bearer"
)

// Validation limits
const (
	MinPasswordLength    = 6
	MinNameLength        = 2
	MaxNameLength        = 50
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxSuggestTextLength = 4000
)

// MaxAISuggestedTasks caps how many suggestions a single request may return.
const MaxAISuggestedTasks = 10

// MaxRequestBodyBytes limits JSON request bodies.
const MaxRequestBodyBytes = 1 << 20
