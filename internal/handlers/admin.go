package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/skip2/go-qrcode"

	"github.com/dedocracia/dedocracia/internal/auth"
	"github.com/dedocracia/dedocracia/internal/logger"
)

// handleLogin processes an admin login request
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondSuccess(w, "Logged in")
}

// handleLogout clears the session
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// handleDeviceQR renders the device provisioning payload as a PNG QR code.
// Scanning stations read it to learn the broker address and topic prefix.
func (h *Handlers) handleDeviceQR(w http.ResponseWriter, r *http.Request) {
	payload, err := json.Marshal(DeviceProvisionResponse{
		BrokerURL:   h.Provision.BrokerURL,
		TopicPrefix: h.Provision.TopicPrefix,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleSetLogLevel changes the log level at runtime
func (h *Handlers) handleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	var req LogLevelRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.Level != "" {
		h.Log.SetLevel(logger.ParseLevel(req.Level))
	}
	if req.HTTPLogging != nil {
		if *req.HTTPLogging {
			h.Log.EnableHTTPLogging()
		} else {
			h.Log.DisableHTTPLogging()
		}
	}

	respondSuccess(w, "Log settings updated")
}
