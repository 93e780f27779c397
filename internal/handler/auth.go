package handler

import (
    "context"      // provides context with cancellation for store calls
    "errors"       // error matching against service sentinels
    "net/http"     // HTTP status codes and primitives
    "strings"      // string manipulation utilities
    "time"         // token expirations

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/isuci/isuci-backend/internal/config"     // app configuration
    "github.com/isuci/isuci-backend/internal/logger"     // structured logging
    "github.com/isuci/isuci-backend/internal/metrics"    // login counters
    "github.com/isuci/isuci-backend/internal/model"      // user and role types
    "github.com/isuci/isuci-backend/internal/repository" // store sentinels
    "github.com/isuci/isuci-backend/internal/service"    // credential checks
    "github.com/isuci/isuci-backend/internal/utils"      // token issuing
)

// Authenticator checks a document id and password pair.
type Authenticator interface {
    Authenticate(ctx context.Context, identifier, secret string) (model.User, error)
}

// UserLookup loads a user by document id.
type UserLookup interface {
    GetByDocument(ctx context.Context, documentID string) (model.User, error)
}

// TokenStore persists refresh-token hashes.
type TokenStore interface {
    StoreRefresh(ctx context.Context, documentID, tokenHash string, exp time.Time) error
    ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
    RevokeByHash(ctx context.Context, tokenHash string) error
    RevokeAllForUser(ctx context.Context, documentID string) error
}

// AuthHandler bundles dependencies for the session endpoints.
type AuthHandler struct {
    Cfg     config.Config
    Auth    Authenticator
    Users   UserLookup
    Tokens  TokenStore
    Metrics *metrics.Metrics
}

func NewAuthHandler(cfg config.Config, a Authenticator, u UserLookup, t TokenStore, m *metrics.Metrics) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Auth: a, Users: u, Tokens: t, Metrics: m}
}

// ----- DTOs -----

type loginReq struct {
    Usuario  string `json:"usuario" validate:"required"`
    Password string `json:"password" validate:"required"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type sessionResp struct {
    Role       string    `json:"role"`
    DocumentID string    `json:"iddocumento"`
    Access     tokenPart `json:"access"`
    Refresh    tokenPart `json:"refresh"`
}

// Login verifies the credentials and returns the caller's role together
// with a fresh token pair.  The identity is carried by the tokens only.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Usuario = strings.TrimSpace(req.Usuario)
    if err := c.Validate(&req); err != nil {
        h.Metrics.Login("invalid")
        return invalidRequest(c, err)
    }

    ctx, cancel := storeContext(c, h.Cfg.QueryTimeout)
    defer cancel()

    u, err := h.Auth.Authenticate(ctx, req.Usuario, req.Password)
    if err != nil {
        if errors.Is(err, service.ErrInvalidCredentials) {
            h.Metrics.Login("rejected")
        } else {
            h.Metrics.Login("error")
        }
        return respondError(c, err)
    }

    role := u.Role()
    resp, err := h.issue(ctx, u.DocumentID, role)
    if err != nil {
        h.Metrics.Login("error")
        return respondError(c, err)
    }
    h.Metrics.Login("success")
    logger.FromContext(ctx).Info("login", "iddocumento", u.DocumentID, "role", role)
    return c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new pair.  Revoking the old
// token is what proves it was still live: when two requests race with the
// same token only the one whose revoke lands gets a pair.  The role is
// re-read from the store so a changed role code takes effect on the next
// refresh.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := storeContext(c, h.Cfg.QueryTimeout)
    defer cancel()

    // owner lookup only; the token may still be claimed by someone else
    documentID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return h.refreshFailed(c, err)
    }
    if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
        return h.refreshFailed(c, err)
    }

    u, err := h.Users.GetByDocument(ctx, documentID)
    if err != nil {
        return h.refreshFailed(c, err)
    }

    resp, err := h.issue(ctx, u.DocumentID, u.Role())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) refreshFailed(c echo.Context, err error) error {
    if errors.Is(err, repository.ErrNotFound) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
    }
    return respondError(c, err)
}

// Logout revokes one session when a refresh_token is posted, or every
// session of the bearer when only an access token is presented.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    _ = c.Bind(&req)
    refreshToken := strings.TrimSpace(req.RefreshToken)

    documentID := ""
    if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
        id, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimPrefix(auth, "Bearer "))
        if err != nil && refreshToken == "" {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
        }
        documentID = id.DocumentID
    }

    ctx, cancel := storeContext(c, h.Cfg.QueryTimeout)
    defer cancel()

    switch {
    case refreshToken != "":
        if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(refreshToken)); err != nil {
            if errors.Is(err, repository.ErrNotFound) {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
            }
            return respondError(c, err)
        }
    case documentID != "":
        if err := h.Tokens.RevokeAllForUser(ctx, documentID); err != nil {
            return respondError(c, err)
        }
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
    }
    return c.NoContent(http.StatusNoContent)
}

// issue signs an access token and stores the hash of a new refresh token.
func (h *AuthHandler) issue(ctx context.Context, documentID string, role model.Role) (sessionResp, error) {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, documentID, string(role), h.Cfg.AccessTTLMin)
    if err != nil {
        return sessionResp{}, err
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return sessionResp{}, err
    }
    if err := h.Tokens.StoreRefresh(ctx, documentID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return sessionResp{}, err
    }
    return sessionResp{
        Role:       string(role),
        DocumentID: documentID,
        Access:     tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh:    tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
    }, nil
}
