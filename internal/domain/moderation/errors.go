package moderation

import "errors"

var (
	ErrReportNotFound = errors.New("report not found")
)
