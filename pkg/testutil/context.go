package testutil

import (
	"net/http"

	"licensehub/pkg/requestcontext"
)

// WithActor adds an authenticated actor to the request context.
// This simulates what the auth middleware does for admin requests.
func WithActor(req *http.Request, actor requestcontext.Actor) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// SuperAdmin returns a request carrying a super admin actor.
func SuperAdmin(req *http.Request) *http.Request {
	return WithActor(req, requestcontext.Actor{Subject: "admin", Role: requestcontext.RoleSuperAdmin})
}
