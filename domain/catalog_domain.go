package domain

var (
	MessageSuccessGetCategories   = "categories retrieved successfully"
	MessageSuccessGetSupermarkets = "supermarkets retrieved successfully"

	MessageFailedGetCategories   = "failed to retrieve categories"
	MessageFailedGetSupermarkets = "failed to retrieve supermarkets"
)

type (
	CategoryResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}

	SupermarketResponse struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Location string `json:"location,omitempty"`
	}
)
