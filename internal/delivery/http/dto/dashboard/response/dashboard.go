package response

import "time"

type ModuleResponse struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Path    string `json:"path"`
	Enabled bool   `json:"enabled"`
}

type RateResponse struct {
	Available        bool       `json:"available"`
	Price            string     `json:"price,omitempty"`
	Asset            string     `json:"asset,omitempty"`
	Fiat             string     `json:"fiat,omitempty"`
	Side             string     `json:"side,omitempty"`
	CounterpartyName string     `json:"counterparty_name,omitempty"`
	FetchedAt        *time.Time `json:"fetched_at,omitempty"`
}

type DashboardResponse struct {
	UserID  string           `json:"user_id"`
	Modules []ModuleResponse `json:"modules"`
	Rate    RateResponse     `json:"rate"`
}

type ModulesResponse struct {
	Modules []ModuleResponse `json:"modules"`
}

type LayoutResponse struct {
	Order []string `json:"order"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
