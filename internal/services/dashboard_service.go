package services

import (
	"context"
	"time"

	"puja-backend/internal/models"
	"puja-backend/internal/repositories"
)

// DashboardService aggregates console stats. The same shape backs the
// REST endpoint and the websocket feed.
type DashboardService struct {
	userRepo    *repositories.UserRepository
	pujaRepo    *repositories.PujaRepository
	bookingRepo *repositories.BookingRepository
	agentRepo   *repositories.AgentRepository
}

func NewDashboardService(
	userRepo *repositories.UserRepository,
	pujaRepo *repositories.PujaRepository,
	bookingRepo *repositories.BookingRepository,
	agentRepo *repositories.AgentRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:    userRepo,
		pujaRepo:    pujaRepo,
		bookingRepo: bookingRepo,
		agentRepo:   agentRepo,
	}
}

func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{
		GeneratedAt: time.Now().Format(time.RFC3339),
	}

	var err error
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalPujas, err = s.pujaRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBookings, err = s.bookingRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ConfirmedBookings, err = s.bookingRepo.CountByPaymentStatus(ctx, models.PaymentStatusSuccess); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = s.bookingRepo.TotalRevenue(ctx); err != nil {
		return nil, err
	}
	if stats.PendingWithdrawals, err = s.agentRepo.CountPendingWithdrawals(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
