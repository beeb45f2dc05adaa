package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-chms/internal/common/models"
	"go-chms/internal/config"
	"go-chms/internal/features/auth"
	"go-chms/internal/features/navigation"

	"go.uber.org/zap"
)

type SessionLoader interface {
	Load(ctx context.Context) (*auth.Session, error)
}

type ModuleSource interface {
	Modules() []models.Module
}

type StatusSource interface {
	Status() auth.Status
}

// Mode selects how required permissions are matched.
type Mode string

const (
	ModeAny Mode = "ANY"
	ModeAll Mode = "ALL"
)

type Requirement struct {
	Roles       []string              `json:"roles"`
	Permissions []models.PermissionID `json:"permissions"`
	Mode        Mode                  `json:"mode"`
}

type State string

const (
	StateAuthorized State = "AUTHORIZED"
	StateDenied     State = "DENIED"
	StateLoading    State = "LOADING"
)

type Reason string

const (
	ReasonSessionNotFound   Reason = "session_not_found"
	ReasonMissingRole       Reason = "missing_role"
	ReasonMissingPermission Reason = "missing_permission"
	ReasonModuleDisabled    Reason = "module_disabled"
	ReasonError             Reason = "error"
)

const msgCheckFailed = "Error checking access. Please try again."

type Decision struct {
	State    State  `json:"state"`
	Reason   Reason `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func (d Decision) Allowed() bool { return d.State == StateAuthorized }

// Guard decides whether the stored session may open a route.
type Guard struct {
	sessions          SessionLoader
	modules           ModuleSource
	status            StatusSource
	redirectOnMissing bool
	logger            *zap.Logger
}

func NewGuard(cfg *config.Config, sessions *auth.SessionStore, modules ModuleSource, authService auth.AuthService, logger *zap.Logger) *Guard {
	return newGuard(sessions, modules, authService, cfg.GuardRedirectOnMissingSession, logger)
}

func newGuard(sessions SessionLoader, modules ModuleSource, status StatusSource, redirectOnMissing bool, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		sessions:          sessions,
		modules:           modules,
		status:            status,
		redirectOnMissing: redirectOnMissing,
		logger:            logger,
	}
}

// Evaluate checks, in order, the session, the required roles (any match),
// the required permissions (per Mode) and the module owning path. The module
// check is skipped while the registry is empty, and for an empty path.
// A failure inside any check is reported as a retryable denial.
func (g *Guard) Evaluate(ctx context.Context, path string, req Requirement) (decision Decision) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Panic while checking access", zap.Any("panic", r), zap.String("route", path))
			decision = Decision{State: StateDenied, Reason: ReasonError, Message: msgCheckFailed}
		}
	}()

	if g.status != nil && g.status.Status() == auth.StatusAuthenticating {
		return Decision{State: StateLoading}
	}

	session, err := g.sessions.Load(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) || errors.Is(err, auth.ErrCorruptSession) {
			d := Decision{State: StateDenied, Reason: ReasonSessionNotFound, Message: "Session not found. Please log in again."}
			if g.redirectOnMissing {
				d.Redirect = auth.LoginRoute
			}
			return d
		}
		g.logger.Error("Failed to load session for access check", zap.Error(err), zap.String("route", path))
		return Decision{State: StateDenied, Reason: ReasonError, Message: msgCheckFailed}
	}
	user := session.User

	if len(req.Roles) > 0 {
		roles, _ := auth.EffectiveRoles(user)
		if !models.ContainsAny(models.NewRoleSet(roles...), req.Roles...) {
			return g.deny(user, path, ReasonMissingRole,
				"Access denied. Required roles: "+strings.Join(req.Roles, ", "))
		}
	}

	if len(req.Permissions) > 0 {
		perms := user.PermissionSet()
		ok := models.ContainsAny(perms, req.Permissions...)
		if req.Mode == ModeAll {
			ok = models.ContainsAll(perms, req.Permissions...)
		}
		if !ok {
			return g.deny(user, path, ReasonMissingPermission,
				"Access denied. Required permissions: "+joinIDs(req.Permissions))
		}
	}

	if path != "" {
		modules := g.modules.Modules()
		if len(modules) > 0 && !navigation.IsRouteAccessible(path, modules) {
			msg := fmt.Sprintf("No enabled module serves %s.", path)
			if m, found := navigation.GetModuleForRoute(path, modules); found {
				msg = fmt.Sprintf("The %s module is disabled.", m.Name)
			}
			return g.deny(user, path, ReasonModuleDisabled, msg)
		}
	}

	return Decision{State: StateAuthorized}
}

func (g *Guard) deny(user *models.User, path string, reason Reason, msg string) Decision {
	g.logger.Info("Access denied",
		zap.String("user_id", user.ID),
		zap.String("route", path),
		zap.String("reason", string(reason)),
	)
	return Decision{State: StateDenied, Reason: reason, Message: msg}
}

func joinIDs(ids []models.PermissionID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
