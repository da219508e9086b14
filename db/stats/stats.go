// Package stats submits usage statistics to InfluxDB.
package stats

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"runtime"
	"sync"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/united-minecrafters/kaede/common/log"
)

// Client is an InfluxDB client. A nil *Client is valid and discards
// everything, so callers never need to check whether stats are enabled.
type Client struct {
	Client api.WriteAPI

	countsMu sync.Mutex
	cmds     uint32
	filtered uint32
	actions  uint32

	m  map[string]uint32
	mu sync.Mutex
}

// New creates a new client and starts its submit loop.
func New(url, token, organization, database string) *Client {
	c := &Client{
		m: make(map[string]uint32),
	}

	c.Client = influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetBatchSize(20)).WriteAPI(organization, database)

	go c.submit()

	return c
}

// EventHandler handles Arikawa events
func (c *Client) EventHandler(ev interface{}) {
	c.RegisterEvent(reflect.ValueOf(ev).Elem().Type().Name())
}

// RegisterEvent registers an event name.
func (c *Client) RegisterEvent(name string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.m[name]++
	c.mu.Unlock()
}

// IncCommand increments the command count by one
func (c *Client) IncCommand() {
	if c == nil {
		return
	}

	c.countsMu.Lock()
	c.cmds++
	c.countsMu.Unlock()
}

// IncFiltered increments the filtered message count by one
func (c *Client) IncFiltered() {
	if c == nil {
		return
	}

	c.countsMu.Lock()
	c.filtered++
	c.countsMu.Unlock()
}

// IncAction increments the moderation action count by one
func (c *Client) IncAction() {
	if c == nil {
		return
	}

	c.countsMu.Lock()
	c.actions++
	c.countsMu.Unlock()
}

func (c *Client) submit() {
	if c == nil {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt, os.Kill)
	defer stop()

	ticker := time.NewTicker(time.Minute)

	for {
		select {
		case <-ticker.C:
			go c.submitInner()
		case <-ctx.Done():
			// break if we're shutting down
			ticker.Stop()
			c.Client.Flush()
			return
		}
	}
}

func (c *Client) submitInner() {
	if c == nil {
		return
	}

	log.Debug("Submitting metrics to InfluxDB")

	var cmds, filtered, actions, totalEvents uint32

	c.countsMu.Lock()
	cmds = c.cmds
	filtered = c.filtered
	actions = c.actions
	c.cmds = 0
	c.filtered = 0
	c.actions = 0
	c.countsMu.Unlock()

	c.mu.Lock()
	im := make(map[string]interface{}, len(c.m))
	for k, v := range c.m {
		totalEvents += v
		im[k] = v
		c.m[k] = 0
	}
	c.mu.Unlock()

	p := influxdb2.NewPoint("events", nil, im, time.Now())
	c.Client.WritePoint(p)

	stats := runtime.MemStats{}
	runtime.ReadMemStats(&stats)

	data := map[string]interface{}{
		"events":      totalEvents,
		"commands":    cmds,
		"filtered":    filtered,
		"actions":     actions,
		"alloc":       stats.Alloc,
		"sys":         stats.Sys,
		"total_alloc": stats.TotalAlloc,
		"goroutines":  runtime.NumGoroutine(),
	}

	sysMem, err := mem.VirtualMemory()
	if err != nil {
		log.Errorf("Error getting system memory: %v", err)
	} else {
		data["total_sys"] = sysMem.Used
		data["total_sys_percent"] = sysMem.UsedPercent
	}

	cpuData, err := cpu.Percent(time.Minute, true)
	if err != nil {
		log.Errorf("Error getting cpu info: %v", err)
	} else {
		for i, d := range cpuData {
			data[fmt.Sprintf("cpu_%d", i)] = d
		}
	}

	p = influxdb2.NewPoint("statistics", nil, data, time.Now())
	c.Client.WritePoint(p)
}
