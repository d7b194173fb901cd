package backend

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/sillysavant/f1nance/internal/models"
	"github.com/sillysavant/f1nance/pkg/errors"
	"github.com/sillysavant/f1nance/pkg/retry"
)

// retryableRead reports whether a failed read is worth another attempt:
// transport failures and upstream 5xx only. 401s and other client errors
// are definitive.
func retryableRead(err error) bool {
	if errors.Is(err, errors.ErrUnauthenticated) {
		return false
	}
	var reqErr *errors.RequestError
	if stderrors.As(err, &reqErr) {
		return reqErr.StatusCode == 0 || reqErr.StatusCode >= 500
	}
	return false
}

// listResource is the shared shape of the dashboard list fetches: an
// authenticated GET with read retries.
func listResource[T any](ctx context.Context, c *Client, operation, path, tokenType, token string) ([]T, error) {
	if token == "" {
		return nil, errors.NewRequestError(errors.ErrUnauthenticated, 0, "No authentication token found")
	}

	return retry.DoWithResult(ctx, retry.BackendConfig(retryableRead), operation, func() ([]T, error) {
		var items []T
		err := c.doJSON(ctx, request{
			operation: operation,
			method:    http.MethodGet,
			path:      path,
			auth:      AuthHeader(tokenType, token),
		}, &items)
		if err != nil {
			return nil, err
		}
		return items, nil
	})
}

// ListExpenses fetches the user's expenses via GET /expenses/.
func (c *Client) ListExpenses(ctx context.Context, tokenType, token string) ([]models.Expense, error) {
	return listResource[models.Expense](ctx, c, "list_expenses", "/expenses/", tokenType, token)
}

// CreateExpense records a new expense via POST /expenses/. No retries:
// a duplicated write is worse than an error surfaced to the form.
func (c *Client) CreateExpense(ctx context.Context, tokenType, token string, req *models.CreateExpenseRequest) (*models.Expense, error) {
	if token == "" {
		return nil, errors.NewRequestError(errors.ErrUnauthenticated, 0, "No authentication token found")
	}

	var expense models.Expense
	err := c.doJSON(ctx, request{
		operation: "create_expense",
		method:    http.MethodPost,
		path:      "/expenses/",
		jsonBody:  req,
		auth:      AuthHeader(tokenType, token),
	}, &expense)
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListIncome fetches the user's income entries via GET /income/.
func (c *Client) ListIncome(ctx context.Context, tokenType, token string) ([]models.Income, error) {
	return listResource[models.Income](ctx, c, "list_income", "/income/", tokenType, token)
}

// ListTaxResources fetches the tax resource library via GET /tax-resources/.
func (c *Client) ListTaxResources(ctx context.Context, tokenType, token string) ([]models.TaxResource, error) {
	return listResource[models.TaxResource](ctx, c, "list_tax_resources", "/tax-resources/", tokenType, token)
}

// ListDocuments fetches the user's uploaded document metadata via
// GET /documents/. File contents never pass through the gateway.
func (c *Client) ListDocuments(ctx context.Context, tokenType, token string) ([]models.Document, error) {
	return listResource[models.Document](ctx, c, "list_documents", "/documents/", tokenType, token)
}

// CurrentSubscription fetches the user's subscription via
// GET /subscriptions/me. The API returns null for users without one; the
// caller receives a nil subscription in that case.
func (c *Client) CurrentSubscription(ctx context.Context, tokenType, token string) (*models.Subscription, error) {
	if token == "" {
		return nil, errors.NewRequestError(errors.ErrUnauthenticated, 0, "No authentication token found")
	}

	var sub *models.Subscription
	err := c.doJSON(ctx, request{
		operation: "current_subscription",
		method:    http.MethodGet,
		path:      "/subscriptions/me",
		auth:      AuthHeader(tokenType, token),
	}, &sub)
	if err != nil {
		return nil, err
	}
	return sub, nil
}
