package models

// Finance API resources rendered on the dashboard pages. Shapes mirror the
// backend's JSON; the gateway never reinterprets amounts or dates.

type Expense struct {
	ID          int     `json:"id"`
	UserID      int     `json:"user_id"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// CreateExpenseRequest is validated in the form UI before any network call.
type CreateExpenseRequest struct {
	Category    string  `json:"category" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date,omitempty"`
}

type Income struct {
	ID          int     `json:"id"`
	UserID      int     `json:"user_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

type TaxResource struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Access      string `json:"access"`
	DownloadURL string `json:"download_url,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// Document is the metadata row for an uploaded document; file contents stay
// with the backend's storage.
type Document struct {
	ID         int    `json:"id"`
	FileName   string `json:"file_name"`
	FileType   string `json:"file_type"`
	UploadedAt string `json:"uploaded_at"`
}

type Subscription struct {
	ID        int     `json:"id"`
	UserID    int     `json:"user_id"`
	PlanName  string  `json:"plan_name"`
	Status    string  `json:"status"`
	MRR       float64 `json:"mrr"`
	Churned   bool    `json:"churned"`
	StartedAt string  `json:"started_at"`
	EndedAt   string  `json:"ended_at,omitempty"`
}

// AdminUser is a row in the back-office user list.
type AdminUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// DashboardStats is the admin landing page summary.
type DashboardStats struct {
	TotalUsers          int     `json:"total_users"`
	VerifiedUsers       int     `json:"verified_users"`
	ActiveSubscriptions int     `json:"active_subscriptions"`
	TotalMRR            float64 `json:"total_mrr"`
}
