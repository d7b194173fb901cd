package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sillysavant/f1nance/internal/backend"
	"github.com/sillysavant/f1nance/internal/middleware"
	"github.com/sillysavant/f1nance/internal/models"
	"github.com/sillysavant/f1nance/internal/userstate"
)

// DashboardHandler serves the member-area pages. Every route here sits
// behind RequireUserSession, so a stored token pair is always available;
// whether it is still valid is the finance API's call, surfaced as a 401
// that the error funnel turns into a fresh login.
type DashboardHandler struct {
	api   *backend.Client
	users *userstate.Manager
	errs  *ErrorResponder
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(api *backend.Client, users *userstate.Manager, errs *ErrorResponder) *DashboardHandler {
	return &DashboardHandler{
		api:   api,
		users: users,
		errs:  errs,
	}
}

func (h *DashboardHandler) sessionStore(c *gin.Context) (*userstate.Store, models.TokenPair) {
	pair, _ := middleware.UserSession(c)
	return h.users.ForSession(pair.TokenType, pair.AccessToken), pair
}

// Home handles GET /dashboard.
func (h *DashboardHandler) Home(c *gin.Context) {
	store, _ := h.sessionStore(c)
	if err := store.FetchUser(c.Request.Context()); err != nil {
		h.errs.UserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page": "dashboard",
		"user": store.User(),
	})
}

// Profile handles GET /dashboard/profile.
func (h *DashboardHandler) Profile(c *gin.Context) {
	store, _ := h.sessionStore(c)
	if err := store.FetchUser(c.Request.Context()); err != nil {
		h.errs.UserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page": "profile",
		"user": store.User(),
	})
}

// UpdateProfile handles POST /dashboard/profile. The response profile is
// written straight into the user state so the next page render skips the
// re-fetch.
func (h *DashboardHandler) UpdateProfile(c *gin.Context) {
	var patch models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	store, pair := h.sessionStore(c)
	profile, err := h.api.UpdateProfile(c.Request.Context(), pair.TokenType, pair.AccessToken, &patch)
	if err != nil {
		h.errs.UserError(c, err)
		return
	}

	store.SetUser(profile)
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// Expenses handles GET /dashboard/expenses.
func (h *DashboardHandler) Expenses(c *gin.Context) {
	pair, _ := middleware.UserSession(c)
	expenses, err := h.api.ListExpenses(c.Request.Context(), pair.TokenType, pair.AccessToken)
	if err != nil {
		h.errs.UserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":     "expenses",
		"expenses": expenses,
	})
}

// CreateExpense handles POST /dashboard/expenses.
func (h *DashboardHandler) CreateExpense(c *gin.Context) {
	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	pair, _ := middleware.UserSession(c)
	expense, err := h.api.CreateExpense(c.Request.Context(), pair.TokenType, pair.AccessToken, &req)
	if err != nil {
		h.errs.UserError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// Income handles GET /dashboard/income.
func (h *DashboardHandler) Income(c *gin.Context) {
	pair, _ := middleware.UserSession(c)
	income, err := h.api.ListIncome(c.Request.Context(), pair.TokenType, pair.AccessToken)
	if err != nil {
		h.errs.UserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":   "income",
		"income": income,
	})
}

// Documents handles GET /dashboard/documents.
func (h *DashboardHandler) Documents(c *gin.Context) {
	pair, _ := middleware.UserSession(c)
	documents, err := h.api.ListDocuments(c.Request.Context(), pair.TokenType, pair.AccessToken)
	if err != nil {
		h.errs.UserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":      "documents",
		"documents": documents,
	})
}

// TaxResources handles GET /dashboard/tax-resources.
func (h *DashboardHandler) TaxResources(c *gin.Context) {
	pair, _ := middleware.UserSession(c)
	resources, err := h.api.ListTaxResources(c.Request.Context(), pair.TokenType, pair.AccessToken)
	if err != nil {
		h.errs.UserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":      "tax_resources",
		"resources": resources,
	})
}

// Subscription handles GET /dashboard/subscription. A null subscription is a
// valid state: the page renders the upgrade pitch instead.
func (h *DashboardHandler) Subscription(c *gin.Context) {
	pair, _ := middleware.UserSession(c)
	sub, err := h.api.CurrentSubscription(c.Request.Context(), pair.TokenType, pair.AccessToken)
	if err != nil {
		h.errs.UserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":         "subscription",
		"subscription": sub,
	})
}
