package util

// gin.Context 中使用的键
const (
	ContextUser      = "user"
	ContextRequestID = "request_id"
)

const HeaderRequestID = "X-Request-ID"

// 分页与批量接口的上限
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	MaxBatchLearners = 200
)
