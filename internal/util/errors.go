package util

import "errors"

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrLearnerDisabled   = errors.New("learner is disabled")
	ErrSnapshotNotFound  = errors.New("no prediction snapshot")
	ErrInvalidRecord     = errors.New("invalid learning record")
	ErrEmptyBatch        = errors.New("learner id list is empty")
	ErrBatchTooLarge     = errors.New("too many learners in one batch")
	ErrNarrativeDisabled = errors.New("narrative assistant is disabled")
)
