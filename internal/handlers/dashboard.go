package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/finanfun/internal/models"
)

// DashboardReader builds the parent and child dashboards.
type DashboardReader interface {
	Parent(ctx context.Context, userID int64) (*models.Dashboard, error)
	Child(ctx context.Context, userID int64) (*models.Dashboard, error)
	ChildForParent(ctx context.Context, parentID, childID int64) (*models.Dashboard, error)
}

// DashboardResponse flattens the dashboard next to the success flag.
// swagger:model DashboardResponse
type DashboardResponse struct {
	Success bool `json:"success"`
	*models.Dashboard
}

func writeDashboard(w http.ResponseWriter, d *models.Dashboard) {
	if d.Accounts == nil {
		d.Accounts = []models.Account{}
	}
	if d.RecentTransactions == nil {
		d.RecentTransactions = []models.Transaction{}
	}
	if d.Type == models.DashboardParent && d.Family == nil {
		d.Family = []models.FamilyMember{}
	}
	writeJSON(w, http.StatusOK, DashboardResponse{Success: true, Dashboard: d})
}

// NewParentDashboardHandler returns the caller's parent dashboard.
// @Summary Parent dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.DashboardResponse
// @Failure 401 {object} handlers.ErrorResponse
// @Router /dashboard/parent [get]
func NewParentDashboardHandler(svc DashboardReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		d, err := svc.Parent(r.Context(), userID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeDashboard(w, d)
	}
}

// NewChildDashboardHandler returns the caller's child dashboard.
// @Summary Child dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.DashboardResponse
// @Failure 401 {object} handlers.ErrorResponse
// @Router /dashboard/child [get]
func NewChildDashboardHandler(svc DashboardReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		d, err := svc.Child(r.Context(), userID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeDashboard(w, d)
	}
}

// NewLinkedChildDashboardHandler returns the dashboard of a child linked to the caller.
// @Summary Linked child dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param childID path int true "Child user id"
// @Success 200 {object} handlers.DashboardResponse
// @Failure 403 {object} handlers.ErrorResponse "Not linked"
// @Router /dashboard/child/{childID} [get]
func NewLinkedChildDashboardHandler(svc DashboardReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parentID, ok := currentUserID(w, r)
		if !ok {
			return
		}
		childID, ok := pathID(w, r, "childID")
		if !ok {
			return
		}

		d, err := svc.ChildForParent(r.Context(), parentID, childID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeDashboard(w, d)
	}
}
