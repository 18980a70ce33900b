package api

import (
	"net/http"

	"github.com/feedden/feedden/app/aggregator"
	"github.com/feedden/feedden/app/database"
)

// CallerResolver maps a request to an opaque user identifier. Session and
// token handling live in the auth collaborator; this core never parses
// cookies or tokens itself.
type CallerResolver func(r *http.Request) (string, bool)

// HeaderCallerResolver resolves the caller from the X-User-ID header set by
// the auth layer in front of this service.
func HeaderCallerResolver(r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	return userID, userID != ""
}

type Handler struct {
	service     *aggregator.Service
	accountRepo database.AccountRepository
}
