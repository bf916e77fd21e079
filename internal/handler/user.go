package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dailymd-dev/dailymd/internal/api"
	"github.com/dailymd-dev/dailymd/internal/domain"
	"github.com/dailymd-dev/dailymd/internal/utils"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	err := h.users.Register(domain.Registration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Confirm:   req.Confirm,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.MessageResponse{
		Message: "Your account was registered. Check your inbox for the verification email.",
	})
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Verify(chi.URLParam(r, "verifyId")); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Your account was verified. You can now log in."})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, api.LoginResponse{Token: token})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userId, err := idParam(r, "userId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	profile, err := h.users.Profile(userId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ProfileResponse{Profile: profile})
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.users.Remove(claims.UserId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Your account was removed."})
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	h.changeSubscription(w, r, h.subscriptions.Subscribe, "You are now subscribed to this user.")
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	h.changeSubscription(w, r, h.subscriptions.Unsubscribe, "You are no longer subscribed to this user.")
}

func (h *Handler) changeSubscription(w http.ResponseWriter, r *http.Request, change func(userId, targetId domain.UserId) error, message string) {
	claims, err := sessionClaims(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	targetId, err := idParam(r, "targetId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := change(claims.UserId, targetId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: message})
}

func (h *Handler) IsSubscribed(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	targetId, err := idParam(r, "targetId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	subscribed, err := h.subscriptions.IsSubscribed(claims.UserId, targetId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.IsSubscribedResponse{Subscribed: subscribed})
}

func (h *Handler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	userId, err := idParam(r, "userId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	subscriptions, lastPage, err := h.subscriptions.Subscriptions(userId, pageParam(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.SubscriptionsResponse{Subscriptions: subscriptions, LastPage: lastPage})
}
