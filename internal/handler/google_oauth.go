package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"courier/config"
	"courier/internal/service"
)

type GoogleOAuthHandler struct {
	cfg     *config.Config
	authSvc *service.AuthService
	log     *zap.Logger
}

func NewGoogleOAuthHandler(cfg *config.Config, authSvc *service.AuthService, log *zap.Logger) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{cfg: cfg, authSvc: authSvc, log: log}
}

func (h *GoogleOAuthHandler) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.OAuth.GoogleClientID,
		ClientSecret: h.cfg.OAuth.GoogleClientSecret,
		RedirectURL:  h.cfg.OAuth.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

// Redirect sends the user to the Google consent screen.
func (h *GoogleOAuthHandler) Redirect(c *gin.Context) {
	if h.cfg.OAuth.GoogleClientID == "" {
		respondErr(c, http.StatusServiceUnavailable, "Google OAuth not configured")
		return
	}
	authURL := h.OAuth2Config().AuthCodeURL("state", oauth2.AccessTypeOffline)
	c.Redirect(http.StatusFound, authURL)
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Callback exchanges the code for tokens, fetches user info, creates or links
// the user and returns courier JWTs.
func (h *GoogleOAuthHandler) Callback(c *gin.Context) {
	if h.cfg.OAuth.GoogleClientID == "" {
		respondErr(c, http.StatusServiceUnavailable, "Google OAuth not configured")
		return
	}
	code := c.Query("code")
	if code == "" {
		respondErr(c, http.StatusBadRequest, "missing code")
		return
	}
	ctx := c.Request.Context()
	conf := h.OAuth2Config()
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		respondErr(c, http.StatusBadRequest, "exchange failed")
		return
	}
	client := conf.Client(ctx, tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil || resp.StatusCode != http.StatusOK {
		respondErr(c, http.StatusInternalServerError, "failed to get user info")
		return
	}
	defer resp.Body.Close()
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		respondErr(c, http.StatusInternalServerError, "invalid user info")
		return
	}
	u, access, refresh, err := h.authSvc.LoginWithGoogle(info.ID, info.Email, info.Name, info.Picture)
	if err != nil {
		h.log.Error("google login failed", zap.String("email", info.Email), zap.Error(err))
		respondErr(c, http.StatusInternalServerError, "login failed")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"user": u, "access_token": access, "refresh_token": refresh})
}

// tokeninfoResponse is the response from https://oauth2.googleapis.com/tokeninfo?id_token=...
type tokeninfoResponse struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Token accepts an ID token from a native client and returns courier JWTs.
func (h *GoogleOAuthHandler) Token(c *gin.Context) {
	if h.cfg.OAuth.GoogleClientID == "" {
		respondErr(c, http.StatusServiceUnavailable, "Google OAuth not configured")
		return
	}
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "id_token required")
		return
	}
	resp, err := http.Get("https://oauth2.googleapis.com/tokeninfo?id_token=" + url.QueryEscape(req.IDToken))
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "token verification failed")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respondErr(c, http.StatusBadRequest, "invalid id_token")
		return
	}
	var info tokeninfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		respondErr(c, http.StatusInternalServerError, "invalid token response")
		return
	}
	if info.Sub == "" || info.Email == "" {
		respondErr(c, http.StatusBadRequest, "invalid token payload")
		return
	}
	u, access, refresh, err := h.authSvc.LoginWithGoogle(info.Sub, info.Email, info.Name, info.Picture)
	if err != nil {
		h.log.Error("google token login failed", zap.String("email", info.Email), zap.Error(err))
		respondErr(c, http.StatusInternalServerError, "login failed")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"user": u, "access_token": access, "refresh_token": refresh})
}
