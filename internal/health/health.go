// Package health reports whether the server can actually take
// bookings: the database must answer and the OTP store must accept
// writes, since registration is dead without either.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"puja-backend/internal/cache"
)

const probeTimeout = 2 * time.Second

type Checker struct {
	db       *pgxpool.Pool
	otpStore cache.OTPStore
}

type Status struct {
	Status   string      `json:"status"`
	Database CheckResult `json:"database"`
	OTPStore CheckResult `json:"otp_store"`
}

type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

func NewChecker(db *pgxpool.Pool, otpStore cache.OTPStore) *Checker {
	return &Checker{db: db, otpStore: otpStore}
}

// Check probes every dependency. The overall status is unhealthy if
// any probe fails.
func (c *Checker) Check() Status {
	dbResult := c.checkDatabase()
	otpResult := c.checkOTPStore()

	status := "healthy"
	if dbResult.Status != "healthy" || otpResult.Status != "healthy" {
		status = "unhealthy"
	}

	return Status{
		Status:   status,
		Database: dbResult,
		OTPStore: otpResult,
	}
}

func (c *Checker) checkDatabase() CheckResult {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	start := time.Now()
	err := c.db.Ping(ctx)
	return result(err == nil, start)
}

// checkOTPStore writes and consumes a short-lived probe entry, the
// same round trip a registration makes.
func (c *Checker) checkOTPStore() CheckResult {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	key := fmt.Sprintf("healthprobe:%d", time.Now().UnixNano())
	start := time.Now()
	if err := c.otpStore.Put(ctx, key, "ok", time.Minute); err != nil {
		return result(false, start)
	}
	_, err := c.otpStore.GetAndClear(ctx, key)
	return result(err == nil, start)
}

func result(ok bool, start time.Time) CheckResult {
	r := CheckResult{
		Status:       "healthy",
		ResponseTime: time.Since(start).Milliseconds(),
	}
	if !ok {
		r.Status = "unhealthy"
	}
	return r
}
