package handlers

import (
	"net/http"

	"github.com/crucial707/todoism/internal/respond"
)

const apiPrefix = "/api/v1"

type apiIndex struct {
	APIVersion        string `json:"api_version"`
	APIBaseURL        string `json:"api_base_url"`
	AuthenticationURL string `json:"authentication_url"`
	CurrentUserURL    string `json:"current_user_url"`
	ItemsURL          string `json:"items_url"`
	ActiveItemsURL    string `json:"active_items_url"`
	CompletedItemsURL string `json:"completed_items_url"`
}

// APIIndex lists the API entry points.
func APIIndex(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, apiIndex{
		APIVersion:        "1.0",
		APIBaseURL:        apiPrefix,
		AuthenticationURL: apiPrefix + "/oauth/token",
		CurrentUserURL:    apiPrefix + "/user",
		ItemsURL:          apiPrefix + "/user/items{?filter,page}",
		ActiveItemsURL:    apiPrefix + "/user/items/active{?page}",
		CompletedItemsURL: apiPrefix + "/user/items/completed{?page}",
	})
}
