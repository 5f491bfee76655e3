package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-bookshelf/internal/core/auth"
	"go-gin-bookshelf/internal/domain"
	mdw "go-gin-bookshelf/internal/transport/http/middleware"
	resp "go-gin-bookshelf/internal/transport/http/response"
	"go-gin-bookshelf/pkg/utils"
)

type AuthHandler struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAuthHandler(users domain.UserRepository, jwt *auth.JWTer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, log: log}
}

type credentialsIn struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in credentialsIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if details := validateRegister(&in); len(details) > 0 {
		resp.Validation(c, details)
		return
	}

	existing, err := h.users.FindByUsername(in.Username)
	if err != nil {
		h.log.Error("register: lookup failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Registration failed")
		return
	}
	if existing != nil {
		resp.Error(c, http.StatusBadRequest, "Username already exists")
		return
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		h.log.Error("register: hash failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	u := domain.User{Username: in.Username, PasswordHash: hashed}
	if err := h.users.Create(&u); err != nil {
		// 并发注册撞唯一索引：预检过了但插入冲突，等同重名
		if isDupKey(err) {
			resp.Error(c, http.StatusBadRequest, "Username already exists")
			return
		}
		h.log.Error("register: insert failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	resp.Created(c, "User created successfully", nil)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in credentialsIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Username == "" || in.Password == "" {
		resp.Error(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	u, err := h.users.FindByUsername(in.Username)
	if err != nil {
		h.log.Error("login: lookup failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	// 查无此人和密码错统一一个文案，不给攻击者探测空间
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		resp.Error(c, http.StatusUnauthorized, resp.MsgInvalidCredentials)
		return
	}

	authToken, refreshToken, err := h.issueTokenPair(u.ID)
	if err != nil {
		h.log.Error("login: token generation failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Token generation failed")
		return
	}

	// refresh token 落库是登录成功的一部分，写失败整个登录算失败
	exp := time.Now().Add(h.jwt.RefreshTTL)
	if err := h.users.SetRefreshToken(u.ID, refreshToken, exp); err != nil {
		h.log.Error("login: store refresh token failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Failed to update refresh token")
		return
	}

	resp.OK(c, "Login successful", gin.H{
		"authToken":    authToken,
		"refreshToken": refreshToken,
	})
}

// POST /api/auth/logout （鉴权路由）
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetUint(mdw.KeyUserID)
	if uid == 0 {
		resp.Error(c, http.StatusUnauthorized, resp.MsgUnauthorized)
		return
	}

	if err := h.users.ClearRefreshToken(uid); err != nil {
		h.log.Error("logout failed", zap.Uint("uid", uid), zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Logout failed")
		return
	}

	resp.OK(c, "Logout successful", nil)
}

type refreshIn struct {
	RefreshToken string `json:"refreshToken"`
}

// POST /api/auth/refresh — 用存量 refresh token 换新令牌对（单活跃会话，旧 token 作废）
func (h *AuthHandler) Refresh(c *gin.Context) {
	var in refreshIn
	if err := c.ShouldBindJSON(&in); err != nil || in.RefreshToken == "" {
		resp.Error(c, http.StatusBadRequest, "Refresh token is required")
		return
	}

	claims, err := h.jwt.Parse(in.RefreshToken)
	if err != nil {
		resp.Error(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	u, err := h.users.FindByID(claims.UID)
	if err != nil {
		h.log.Error("refresh: lookup failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	// 必须与落库的 token 一致且未过有效期（登出后两列为空，直接拒绝）
	if u == nil || u.RefreshToken == nil || *u.RefreshToken != in.RefreshToken ||
		u.RefreshTokenExp == nil || time.Now().After(*u.RefreshTokenExp) {
		resp.Error(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	authToken, refreshToken, err := h.issueTokenPair(u.ID)
	if err != nil {
		h.log.Error("refresh: token generation failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Token generation failed")
		return
	}
	exp := time.Now().Add(h.jwt.RefreshTTL)
	if err := h.users.SetRefreshToken(u.ID, refreshToken, exp); err != nil {
		h.log.Error("refresh: store refresh token failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Failed to update refresh token")
		return
	}

	resp.OK(c, "Token refreshed successfully", gin.H{
		"authToken":    authToken,
		"refreshToken": refreshToken,
	})
}

// GET /api/auth/protected （鉴权路由）
func (h *AuthHandler) Protected(c *gin.Context) {
	uid := c.GetUint(mdw.KeyUserID)
	if uid == 0 {
		resp.Error(c, http.StatusUnauthorized, resp.MsgUnauthorized)
		return
	}

	u, err := h.users.FindByID(uid)
	if err != nil {
		h.log.Error("protected: lookup failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	if u == nil {
		resp.Error(c, http.StatusNotFound, "User not found")
		return
	}

	resp.OK(c, "Protected route accessed", gin.H{
		"user": gin.H{"id": u.ID, "username": u.Username},
	})
}

func (h *AuthHandler) issueTokenPair(uid uint) (authToken, refreshToken string, err error) {
	if authToken, err = h.jwt.IssueAccess(uid); err != nil {
		return "", "", err
	}
	if refreshToken, err = h.jwt.IssueRefresh(uid); err != nil {
		return "", "", err
	}
	return authToken, refreshToken, nil
}

func validateRegister(in *credentialsIn) map[string][]string {
	details := map[string][]string{}
	switch {
	case in.Username == "":
		details["username"] = append(details["username"], "Username is required")
	case len(in.Username) < 3:
		details["username"] = append(details["username"], "Username must be at least 3 characters long")
	case !utils.ValidUsername(in.Username):
		details["username"] = append(details["username"], "Username must only contain lowercase letters, numbers, and underscores")
	}
	switch {
	case in.Password == "":
		details["password"] = append(details["password"], "Password is required")
	case len(in.Password) < 8:
		details["password"] = append(details["password"], "Password must be at least 8 characters long")
	}
	return details
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，不同驱动报错文案不一
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
