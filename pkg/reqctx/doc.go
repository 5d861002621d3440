// Package reqctx carries request-scoped metadata from the HTTP layer into
// services.
//
// Middleware stores a RequestMeta once per request:
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{
//	    RequestID:   "abc-123",
//	    ClientIP:    "192.168.1.1",
//	    RequestedAt: time.Now(),
//	})
//
// Services read it back for log correlation:
//
//	log.ErrorContext(ctx, "error sending email", reqctx.LogAttrs(ctx)...)
//
// Context keys are unexported so no other package can collide with them.
package reqctx
