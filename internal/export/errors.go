package export

import "errors"

var (
	ErrInvalidBuildingID = errors.New("building id is not a valid file name")
	ErrNoRecord          = errors.New("result has no record")
)
