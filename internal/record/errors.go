package record

import "errors"

var (
	ErrInvalidHours   = errors.New("record must hold at least one hour")
	ErrHourOutOfRange = errors.New("hour out of range")
	ErrIncompleteHour = errors.New("hour has undefined output fields")
	ErrStatusUnset    = errors.New("hour has no status")
)
