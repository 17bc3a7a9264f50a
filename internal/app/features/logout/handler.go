// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/chordhub/internal/app/store/audit"
	"github.com/dalemusser/chordhub/internal/app/system/auditlog"
	"github.com/dalemusser/chordhub/internal/app/system/auth"
	"github.com/dalemusser/chordhub/internal/app/system/authz"
	"github.com/dalemusser/chordhub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

type Handler struct {
	Sessions *auth.Manager
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(sessions *auth.Manager, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sessions, AuditLog: auditLog, Log: logger}
}

// HandleLogout clears the session. Logging out while not signed in is
// not an error.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if _, userID, ok := authz.UserCtx(r); ok {
		h.AuditLog.Log(r.Context(), audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLogout,
			UserID:    &userID,
			IP:        r.RemoteAddr,
			UserAgent: r.UserAgent(),
			Success:   true,
		})
	}

	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Warn("logout: session clear failed", zap.Error(err))
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
