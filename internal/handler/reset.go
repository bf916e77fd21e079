package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dailymd-dev/dailymd/internal/api"
	"github.com/dailymd-dev/dailymd/internal/utils"
)

func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req api.IssueResetRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.resets.Issue(req.Email); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{
		Message: "An authentication code was sent to your email address.",
	})
}

func (h *Handler) AuthenticatePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req api.AuthenticateResetRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.resets.Authenticate(chi.URLParam(r, "authenticateId"), req.Code); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{
		Message: "Your password reset token was authenticated. You can now change your password.",
	})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req api.ChangePasswordRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.resets.ChangePassword(chi.URLParam(r, "authenticateId"), req.Password, req.Confirm); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Your password was changed."})
}
