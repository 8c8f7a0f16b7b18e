package project

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidDates     = errors.New("end date must not be before start date")
	ErrUnknownReference = errors.New("referenced project, department, manager or employee does not exist")
	ErrInvalidStatus    = errors.New("unknown task status")
	ErrNotAssignee      = errors.New("task is not assigned to you")
)
