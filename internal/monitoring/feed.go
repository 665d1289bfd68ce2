// Package monitoring pushes live console stats over a websocket so the
// admin dashboard updates without polling. System gauges are refreshed
// into Prometheus on the same tick.
package monitoring

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"puja-backend/internal/metrics"
	"puja-backend/internal/models"
	"puja-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Snapshot is one frame of the dashboard feed.
type Snapshot struct {
	Stats         *models.DashboardStats `json:"stats"`
	CPUPercent    float64                `json:"cpu_percent"`
	MemoryPercent float64                `json:"memory_percent"`
}

type DashboardFeed struct {
	dashboard  *services.DashboardService
	interval   time.Duration
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
}

func NewDashboardFeed(dashboard *services.DashboardService) *DashboardFeed {
	return &DashboardFeed{
		dashboard: dashboard,
		interval:  10 * time.Second,
		clients:   make(map[*websocket.Conn]bool),
	}
}

// HandleWebSocket upgrades the connection and registers the client. An
// initial snapshot is pushed immediately so the console renders without
// waiting for the first tick.
func (f *DashboardFeed) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Dashboard] websocket upgrade error:", err)
		return
	}

	f.clientsMux.Lock()
	f.clients[conn] = true
	f.clientsMux.Unlock()

	if snap, err := f.collect(r.Context()); err == nil {
		conn.WriteJSON(snap)
	}

	go func() {
		defer func() {
			f.clientsMux.Lock()
			delete(f.clients, conn)
			f.clientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Run broadcasts snapshots on a fixed interval until the context ends.
func (f *DashboardFeed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.clientsMux.Lock()
			n := len(f.clients)
			f.clientsMux.Unlock()
			if n == 0 {
				// Still refresh gauges so Prometheus stays current.
				f.refreshSystemGauges()
				continue
			}

			snap, err := f.collect(ctx)
			if err != nil {
				log.Printf("[Dashboard] stats collection failed: %v", err)
				continue
			}
			f.broadcast(snap)
		}
	}
}

func (f *DashboardFeed) collect(ctx context.Context) (*Snapshot, error) {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stats, err := f.dashboard.Stats(cctx)
	if err != nil {
		return nil, err
	}

	cpuPercent, memPercent := f.refreshSystemGauges()
	return &Snapshot{
		Stats:         stats,
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
	}, nil
}

func (f *DashboardFeed) refreshSystemGauges() (float64, float64) {
	var cpuPercent float64
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuPercent = percents[0]
	}
	var memPercent float64
	if vm, err := mem.VirtualMemory(); err == nil {
		memPercent = vm.UsedPercent
	}
	metrics.SystemCPUPercent.Set(cpuPercent)
	metrics.SystemMemoryPercent.Set(memPercent)
	return cpuPercent, memPercent
}

func (f *DashboardFeed) broadcast(snap *Snapshot) {
	f.clientsMux.Lock()
	defer f.clientsMux.Unlock()
	for client := range f.clients {
		if err := client.WriteJSON(snap); err != nil {
			client.Close()
			delete(f.clients, client)
		}
	}
}
