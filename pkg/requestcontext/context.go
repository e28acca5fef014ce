// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services read them without importing net/http.
//
//	actor := requestcontext.ActorFrom(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject a fixed clock with requestcontext.WithTime(ctx, fixedTime).
package requestcontext

import (
	"context"
	"time"

	id "licensehub/pkg/domain"
)

// Role is the portal role carried by an authenticated admin.
type Role string

const (
	RoleSuperAdmin        Role = "SUPER_ADMIN"
	RoleSalesAdmin        Role = "SALES_ADMIN"
	RoleOrganizationAdmin Role = "ORGANIZATION_ADMIN"
	RoleStudent           Role = "STUDENT"
)

// Actor is the authenticated caller of an admin operation.
type Actor struct {
	Subject        string
	Role           Role
	OrganizationID id.OrganizationID
}

// CanManage reports whether the actor may administer licenses of orgID.
func (a Actor) CanManage(orgID id.OrganizationID) bool {
	switch a.Role {
	case RoleSuperAdmin, RoleSalesAdmin:
		return true
	case RoleOrganizationAdmin:
		return !a.OrganizationID.IsZero() && a.OrganizationID == orgID
	default:
		return false
	}
}

type (
	actorKey       struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

var (
	ContextKeyActor       = actorKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// ActorFrom returns the authenticated actor, or the zero Actor.
func ActorFrom(ctx context.Context) Actor {
	if a, ok := ctx.Value(ContextKeyActor).(Actor); ok {
		return a
	}
	return Actor{}
}

// WithActor injects the authenticated actor.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ContextKeyActor, a)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (CLI, background work).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
