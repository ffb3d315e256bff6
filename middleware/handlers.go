package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/ktyouta/frontauth"
	"github.com/ktyouta/frontauth/token"
)

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID      int64  `json:"userId"`
	UserName    string `json:"userName"`
	Birthday    string `json:"birthday,omitempty"`
	AccessToken string `json:"accessToken"`
}

type refreshResponse struct {
	UserID      int64  `json:"userId"`
	AccessToken string `json:"accessToken"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// LoginHandler authenticates a JSON userName/password body. On success it
// sets the refresh cookie and returns the access token in the body; on any
// credential failure it returns 401 with no detail.
func LoginHandler(engine *frontauth.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		res, err := engine.Login(r.Context(), req.UserName, req.Password)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		http.SetCookie(w, engine.RefreshCookie(res.RefreshToken))
		writeJSON(w, http.StatusOK, loginResponse{
			UserID:      res.UserID,
			UserName:    res.User.Name,
			Birthday:    res.User.Birthday,
			AccessToken: res.AccessToken,
		})
	}
}

// RefreshHandler rotates the refresh cookie and mints a new access token.
// The Origin header and the CSRF sentinel header are forwarded to the engine
// verbatim; the engine decides whether they pass.
func RefreshHandler(engine *frontauth.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var cookieValue string
		if c, err := r.Cookie(token.CookieKey); err == nil {
			cookieValue = c.Value
		}

		res, err := engine.Refresh(r.Context(), frontauth.RefreshRequest{
			Origin:    r.Header.Get("Origin"),
			CSRFToken: r.Header.Get(engine.CSRFHeader()),
			Cookie:    cookieValue,
		})
		if err != nil {
			// A dead session cookie is useless to the client; clear it so
			// the browser stops replaying it.
			http.SetCookie(w, engine.ClearRefreshCookie())
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		http.SetCookie(w, engine.RefreshCookie(res.RefreshToken))
		writeJSON(w, http.StatusOK, refreshResponse{
			UserID:      res.UserID,
			AccessToken: res.AccessToken,
		})
	}
}

// LogoutHandler clears the refresh cookie. There is no server-side session
// state to tear down; outstanding tokens simply age out.
func LogoutHandler(engine *frontauth.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		http.SetCookie(w, engine.ClearRefreshCookie())
		writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
