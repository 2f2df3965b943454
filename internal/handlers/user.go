package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/crucial707/todoism/internal/auth"
	"github.com/crucial707/todoism/internal/i18n"
	"github.com/crucial707/todoism/internal/models"
	"github.com/crucial707/todoism/internal/repo"
	"github.com/crucial707/todoism/internal/respond"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Users    *repo.UserRepo
	Items    *repo.ItemRepo
	Sessions *repo.SessionRepo
}

type currentUserResponse struct {
	models.User
	ItemsURL    string `json:"items_url"`
	TotalItems  int    `json:"total_items"`
	ActiveItems int    `json:"active_items"`
}

// Current describes the authenticated user.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	total, err := h.Items.Count(r.Context(), user.ID, models.FilterAll)
	if err != nil {
		respond.Internal(w, r, fmt.Errorf("count items: %w", err))
		return
	}
	active, err := h.Items.Count(r.Context(), user.ID, models.FilterActive)
	if err != nil {
		respond.Internal(w, r, fmt.Errorf("count active items: %w", err))
		return
	}
	respond.JSON(w, http.StatusOK, currentUserResponse{
		User:        *user,
		ItemsURL:    apiPrefix + "/user/items",
		TotalItems:  total,
		ActiveItems: active,
	})
}

type changePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,bcrypt"`
}

// ChangePassword replaces the password after checking the current one, then
// signs out every other session of the user.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in changePasswordInput
	err := decode(r, &in, func(v url.Values) {
		in.OldPassword, in.NewPassword = v.Get("old_password"), v.Get("new_password")
	})
	if err != nil {
		badRequest(w, r, "Bad request")
		return
	}
	if err := validate.Struct(in); err != nil {
		respond.ValidationError(w, r, validationFields(err))
		return
	}
	if !auth.CheckPassword(user.PasswordHash, in.OldPassword) {
		respond.ValidationError(w, r, map[string]string{
			"old_password": i18n.T(r.Context(), "Current password is incorrect."),
		})
		return
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		respond.Internal(w, r, fmt.Errorf("hash password: %w", err))
		return
	}
	if err := h.Users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		respond.Internal(w, r, fmt.Errorf("update password: %w", err))
		return
	}
	if err := h.Sessions.DeleteOthers(r.Context(), user.ID, auth.SessionIDFrom(r.Context())); err != nil {
		respond.Internal(w, r, fmt.Errorf("revoke sessions: %w", err))
		return
	}
	respond.JSON(w, http.StatusOK, respond.Message{Message: i18n.T(r.Context(), "Password updated.")})
}
