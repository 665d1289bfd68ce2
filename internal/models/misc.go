package models

import "time"

type Temple struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CarouselSlide struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	LinkURL   string    `json:"link_url"`
	Position  int       `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CarouselSlideUpdate carries a partial slide edit. Nil fields keep
// their stored values; ImageURL is set from an uploaded file only.
type CarouselSlideUpdate struct {
	Title    *string `json:"title"`
	ImageURL string  `json:"-"`
	LinkURL  *string `json:"link_url"`
	Position *int    `json:"position"`
	Active   *bool   `json:"active"`
}

type Feedback struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Rating    *int      `json:"rating,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardStats backs the admin console landing page and the live
// websocket feed.
type DashboardStats struct {
	TotalUsers          int     `json:"total_users"`
	TotalPujas          int     `json:"total_pujas"`
	TotalBookings       int     `json:"total_bookings"`
	ConfirmedBookings   int     `json:"confirmed_bookings"`
	TotalRevenue        float64 `json:"total_revenue"`
	PendingWithdrawals  int     `json:"pending_withdrawals"`
	GeneratedAt         string  `json:"generated_at"`
}

// PanchangResult is one entry of the aggregate the refresh proxy
// returns, one per downstream endpoint.
type PanchangResult struct {
	Endpoint string `json:"endpoint"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}
