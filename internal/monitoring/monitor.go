// Package monitoring pushes live system and ledger stats to dashboard
// clients over a websocket.
package monitoring

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

type Monitor struct {
	db         *pgxpool.Pool
	upgrader   websocket.Upgrader
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
}

type LiveStats struct {
	Timestamp      time.Time `json:"timestamp"`
	DatabaseStatus string    `json:"database_status"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	ActiveRentals  int       `json:"active_rentals"`
	CPUPercent     float64   `json:"cpu_percent"`
	MemoryPercent  float64   `json:"memory_percent"`
	DiskPercent    float64   `json:"disk_percent"`
}

func NewMonitor(db *pgxpool.Pool) *Monitor {
	return &Monitor{
		db: db,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// Start begins the broadcast loop. Stops when ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.broadcast(m.collect(ctx))
			}
		}
	}()
}

// HandleWS upgrades a connection and registers it for stat broadcasts.
func (m *Monitor) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Monitoring] websocket upgrade failed: %v", err)
		return
	}

	m.clientsMux.Lock()
	m.clients[conn] = true
	m.clientsMux.Unlock()

	// Send a snapshot immediately so the dashboard isn't blank until the
	// next tick.
	conn.WriteJSON(m.collect(r.Context()))

	// Reader loop just detects disconnects.
	go func() {
		defer m.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (m *Monitor) collect(ctx context.Context) LiveStats {
	stats := LiveStats{Timestamp: time.Now()}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := m.db.Ping(pingCtx); err != nil {
		stats.DatabaseStatus = "unhealthy"
	} else {
		stats.DatabaseStatus = "healthy"
	}
	stats.ResponseTimeMs = time.Since(start).Milliseconds()

	if stats.DatabaseStatus == "healthy" {
		var active int
		if err := m.db.QueryRow(pingCtx,
			`SELECT COUNT(*) FROM rentals WHERE status = 'active'`).Scan(&active); err == nil {
			stats.ActiveRentals = active
		}
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
	}
	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
	}

	return stats
}

func (m *Monitor) broadcast(stats LiveStats) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	for conn := range m.clients {
		if err := conn.WriteJSON(stats); err != nil {
			conn.Close()
			delete(m.clients, conn)
		}
	}
}

func (m *Monitor) drop(conn *websocket.Conn) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()
	conn.Close()
	delete(m.clients, conn)
}
