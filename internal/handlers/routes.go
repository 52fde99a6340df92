package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all short link routes.
func RegisterRoutes(api huma.API, h *LinkHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-link",
		Method:        http.MethodPost,
		Path:          "/create",
		Summary:       "Create short link",
		Description:   "Binds the url query parameter to a new random code.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
	}, h.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "resolve-link",
		Method:      http.MethodGet,
		Path:        "/short/{id}",
		Summary:     "Resolve short link",
		Description: "Returns the original URL bound to the code.",
		Tags:        []string{"Links"},
	}, h.ResolveLink)

	huma.Register(api, huma.Operation{
		OperationID: "remove-links",
		Method:      http.MethodDelete,
		Path:        "/delete-urls",
		Summary:     "Delete short links",
		Description: "Deletes every listed code. Partial failures are reported with status 207; " +
			"a 503 problem body lists every code when none could be deleted.",
		Tags:        []string{"Links"},
	}, h.RemoveLinks)
}
