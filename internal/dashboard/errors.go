package dashboard

import "errors"

var (
	ErrFetchFailed  = errors.New("fetch failed")
	ErrSaveFailed   = errors.New("save failed")
	ErrDeleteFailed = errors.New("delete failed")

	// another create/update/delete from this dashboard has not finished yet
	ErrBusy             = errors.New("another action is in flight")
	ErrNoPendingDelete  = errors.New("no course is awaiting delete confirmation")
	ErrNothingToExport  = errors.New("no registration data to export")
	ErrUnsupportedInput = errors.New("unsupported save request")
)
