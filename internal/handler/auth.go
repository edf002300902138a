package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/auth"
	"github.com/nadia/studydesk/internal/service"
	"github.com/nadia/studydesk/internal/session"
)

// AuthHandler handles registration, login/logout, and the profile endpoints.
type AuthHandler struct {
	svc    *service.AuthService
	secure bool // mark session cookies Secure (HTTPS deployments)
	logger *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, secure: secureCookies, logger: logger}
}

// HandleRegister handles POST /api/register.
//
// The registration form arrives as multipart/form-data because it can carry
// a profile picture alongside the text fields.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, apperror.ValidationFailed("form", "invalid multipart form"))
		return
	}

	in := service.RegisterInput{
		Username: r.FormValue("username"),
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Phone:    r.FormValue("phone"),
		Socials:  r.FormValue("socials"),
	}

	if pic, name, ok := formFile(r, "profile_pic"); ok {
		defer pic.Close()
		in.ProfilePic = pic
		in.ProfilePicName = name
	}

	if _, err := h.svc.Register(r.Context(), in); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated)
}

// loginRequest is the JSON body of POST /api/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/login. On success it sets the session
// cookie and tells the frontend where to go next.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	sid, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, sid)

	writeJSON(w, http.StatusOK, successResponse{
		Success:  true,
		Redirect: "/dashboard",
	})
}

// HandleLogout handles GET /api/logout. It destroys the server-side session,
// expires the cookie, and sends the browser back to the landing page.
//
// Logout without a session is fine — the redirect happens either way.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var sid string
	if c, err := r.Cookie(session.CookieName); err == nil {
		sid = c.Value
	}

	if err := h.svc.Logout(r.Context(), sid); err != nil {
		// The session registry failing shouldn't strand the user on the
		// page — log it and expire the cookie anyway.
		h.logger.Error("logout failed", slog.String("error", err.Error()))
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleGetUser handles GET /api/user: the authenticated caller's own
// profile. The password hash never serializes.
func (h *AuthHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateProfile handles POST /api/user/update. Multipart, every field
// optional — absent fields keep their stored values.
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, apperror.ValidationFailed("form", "invalid multipart form"))
		return
	}

	in := service.UpdateProfileInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Phone:    r.FormValue("phone"),
		Socials:  r.FormValue("socials"),
		Password: r.FormValue("password"),
	}

	if pic, name, ok := formFile(r, "profile_pic"); ok {
		defer pic.Close()
		in.ProfilePic = pic
		in.ProfilePicName = name
	}

	user, err := h.svc.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// setSessionCookie issues the session cookie.
//
// HttpOnly keeps the session id out of reach of page scripts; SameSite=Lax
// stops cross-site POSTs from riding the cookie while still letting normal
// navigation through.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
