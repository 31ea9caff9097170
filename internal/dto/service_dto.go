package dto

import "github.com/ahmetcoskunkizilkaya/meal-catalog/internal/catalog"

// UpdateServiceResponse is the body of PUT /api/admin/services/:id.
type UpdateServiceResponse struct {
	Success bool                   `json:"success"`
	Service *catalog.ServiceRecord `json:"service,omitempty"`
	Message string                 `json:"message,omitempty"`
}
