// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/platepicker/internal/auth"
	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/recommend"
	"github.com/tomtom215/platepicker/internal/tracking"
)

// chatTopK is the number of cards shown on the chat page.
const chatTopK = 5

type formPage struct {
	User  string
	Error string
}

type chatPage struct {
	User    string
	UserID  string
	Message string
	Lat     string
	Lng     string
	Answer  string
	Results []models.Candidate
	Parsed  *models.ParsedQuery
	Error   string
}

func (h *Handler) currentUser(r *http.Request) *auth.Claims {
	claims, err := h.deps.JWT.UserFromRequest(r)
	if err != nil {
		return nil
	}
	return claims
}

func (h *Handler) startSession(w http.ResponseWriter, user *models.User) error {
	token, err := h.deps.JWT.GenerateToken(user)
	if err != nil {
		return err
	}
	auth.SetSessionCookie(w, token, h.deps.JWT.Timeout(), h.cfg.Security.CookieSecure)
	return nil
}

// Home handles GET /.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	page := formPage{}
	if c := h.currentUser(r); c != nil {
		page.User = c.Username
	}
	h.pages.render(w, r, http.StatusOK, "home.html", page)
}

// LoginPage handles GET /login.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusOK, "login.html", formPage{})
}

// Login handles POST /login and redirects to /chat on success.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	user, err := h.deps.Accounts.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		h.formError(w, r, "login.html", err)
		return
	}
	if err := h.startSession(w, user); err != nil {
		h.formError(w, r, "login.html", err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("user_id", user.UserID).Msg("User logged in")
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusOK, "register.html", formPage{})
}

// Register handles POST /register, signing the new user in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	user, err := h.deps.Accounts.Register(r.Context(),
		r.PostFormValue("username"), r.PostFormValue("password"), r.PostFormValue("confirm"))
	if err != nil {
		h.formError(w, r, "register.html", err)
		return
	}
	if err := h.startSession(w, user); err != nil {
		h.formError(w, r, "register.html", err)
		return
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

// formError re-renders a form with the user-facing message. Unexpected
// failures are logged and rendered with a generic message and 500.
func (h *Handler) formError(w http.ResponseWriter, r *http.Request, page string, err error) {
	status := http.StatusOK
	if s, _, _ := errorStatus(err); s >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("Form submission failed")
		status = s
	}
	h.pages.render(w, r, status, page, formPage{Error: auth.Message(err)})
}

// Logout handles GET /logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cfg.Security.CookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ChatPage handles GET /chat.
func (h *Handler) ChatPage(w http.ResponseWriter, r *http.Request) {
	claims := h.currentUser(r)
	if claims == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.pages.render(w, r, http.StatusOK, "chat.html", chatPage{
		User:   claims.Username,
		UserID: claims.UserID,
		Lat:    formatCoord(h.cfg.Recommend.DefaultLatitude),
		Lng:    formatCoord(h.cfg.Recommend.DefaultLongitude),
	})
}

// Chat handles POST /chat: runs the pipeline, logs one impression per
// shown restaurant and renders the answer with the cards.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	claims := h.currentUser(r)
	if claims == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	ctx := logging.ContextWithUserID(r.Context(), claims.UserID)

	lat, lng := h.chatLocation(r)
	page := chatPage{
		User:    claims.Username,
		UserID:  claims.UserID,
		Message: r.PostFormValue("message"),
		Lat:     r.PostFormValue("lat"),
		Lng:     r.PostFormValue("lng"),
	}
	if lat != nil {
		page.Lat, page.Lng = formatCoord(*lat), formatCoord(*lng)
	}

	runCtx, cancel := context.WithTimeout(ctx, pipelineTimeout)
	defer cancel()
	res, err := h.deps.Engine.Run(runCtx, recommend.Request{
		Message: page.Message,
		Lat:     lat,
		Lng:     lng,
		UserID:  claims.UserID,
		TopK:    chatTopK,
	})
	if err != nil {
		status, _, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			logging.Ctx(ctx).Error().Err(err).Msg("Chat recommendation failed")
			msg = "Không thể gợi ý lúc này, vui lòng thử lại sau"
		}
		page.Error = msg
		h.pages.render(w, r, http.StatusOK, "chat.html", page)
		return
	}

	h.logImpressions(ctx, claims.UserID, lat, lng, res)
	page.Answer = res.Answer
	page.Results = res.Restaurants
	page.Parsed = res.Parsed
	h.pages.render(w, r, http.StatusOK, "chat.html", page)
}

// logImpressions failures are logged; the page still renders.
func (h *Handler) logImpressions(ctx context.Context, userID string, lat, lng *float64, res *recommend.Result) {
	zero := 0.0
	for i := range res.Restaurants {
		c := &res.Restaurants[i]
		ev := tracking.Event{
			UserID:       userID,
			RestaurantID: c.Key(i),
			Action:       models.ActionImpression,
			Reward:       &zero,
			Lat:          lat,
			Lng:          lng,
		}
		if p := res.Parsed; p != nil {
			ev.Intent = p.Intent
			ev.Cuisine = p.Cuisine
			ev.PriceMin = p.PriceRange.Min
			ev.PriceMax = p.PriceRange.Max
		}
		if _, err := h.deps.Recorder.Record(ctx, ev); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("restaurant_id", ev.RestaurantID).Msg("Impression not logged")
		}
	}
}

// TrackForm handles POST /track from the chat page.
func (h *Handler) TrackForm(w http.ResponseWriter, r *http.Request) {
	userID := models.AnonymousUser
	if c := h.currentUser(r); c != nil {
		userID = c.UserID
	}
	if _, err := h.deps.Recorder.Record(r.Context(), trackFormEvent(r, userID)); err != nil {
		writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"ok":true}` + "\n"))
}

// chatLocation reads the lat/lng form fields. A missing field takes the
// configured default. A value that does not parse drops the location.
func (h *Handler) chatLocation(r *http.Request) (lat, lng *float64) {
	la, okLat := formCoord(r, "lat", h.cfg.Recommend.DefaultLatitude)
	lo, okLng := formCoord(r, "lng", h.cfg.Recommend.DefaultLongitude)
	if !okLat || !okLng {
		return nil, nil
	}
	return &la, &lo
}

func formCoord(r *http.Request, key string, fallback float64) (float64, bool) {
	raw := r.PostFormValue(key)
	if _, present := r.PostForm[key]; !present {
		return fallback, true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return v, err == nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
