package aggregator

import "errors"

// User-input errors, surfaced to the caller without retry. Fetch and parse
// failures are typed in the feed package and never fail a whole refresh.
var (
	ErrFolderNotFound       = errors.New("folder does not exist")
	ErrFolderExists         = errors.New("folder name already exists")
	ErrSubscriptionNotFound = errors.New("subscription does not exist")
	ErrSubscriptionExists   = errors.New("subscription with this name already exists")
	ErrFeedDuplicate        = errors.New("subscription to this feed already exists")
	ErrInvalidFeedURL       = errors.New("feed URL could not be parsed")
)
