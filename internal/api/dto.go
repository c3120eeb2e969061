package api

import (
	"time"

	"github.com/starford/sowilo/internal/models"
)

// TreeNode is one tree entry in the listing response (aliased from the
// domain layer).
type TreeNode = models.TreeNode

// DocumentResponse is the full document response type (aliased from the
// domain layer).
type DocumentResponse = models.DocumentPayload

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status    string    `json:"status" example:"ok" validate:"required"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}
