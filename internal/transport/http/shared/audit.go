package shared

import (
	"net/http"

	"go.uber.org/zap"

	"corpdash/internal/domain/audit"
	"corpdash/internal/requestctx"
)

// Audit records a completed mutation. Failures are logged and never undo the
// change the user already made.
func Audit(r *http.Request, recorder *audit.Service, action, entityType string, entityID int64, after any) {
	if recorder == nil {
		return
	}
	principal, _ := requestctx.GetPrincipal(r.Context())
	requestID := requestctx.GetRequestID(r.Context())
	err := recorder.Record(r.Context(), audit.Entry{
		ActorRole:  principal.Role,
		ActorID:    principal.ID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestID,
		IP:         ClientIP(r),
		After:      after,
	})
	if err != nil {
		zap.L().Warn("audit record failed",
			zap.Error(err),
			zap.String("entityType", entityType),
			zap.Int64("entityId", entityID),
			zap.String("requestId", requestID),
		)
	}
}

// LogError records an unexpected failure with the request id for correlation.
func LogError(r *http.Request, msg string, err error) {
	zap.L().Error(msg, zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("requestId", requestctx.GetRequestID(r.Context())))
}
