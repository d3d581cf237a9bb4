// Package sensors samples the board: CPU load, memory, temperature and
// battery. Samples land in a fixed-size ring for the on-panel graph and
// are handed to the datastore for the long log.
package sensors

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Sample is one poll of every source. Sources that fail leave their zero
// value; a dead sensor must not take the dashboard down with it.
type Sample struct {
	At          time.Time `json:"at"`
	CPUPercent  float64   `json:"cpu_percent"`
	MemPercent  float64   `json:"mem_percent"`
	TempC       float64   `json:"temp_c"`
	BatteryPct  int       `json:"battery_pct"`
	BatteryVolt float64   `json:"battery_volt"`
	Uptime      int64     `json:"uptime_sec"`
}

// Poller owns the ring and knows when the next sample is due.
type Poller struct {
	history Ring
	battery *Battery
	nextDue time.Time
}

func NewPoller() *Poller {
	return &Poller{battery: NewBattery()}
}

// Due reports whether the next sample is owed. The device loop calls this
// every pass; sampling itself only happens on the interval.
func (p *Poller) Due(now time.Time) bool {
	return !now.Before(p.nextDue)
}

// Sample polls every source and logs the result. Individual source errors
// are swallowed into zero values.
func (p *Poller) Sample(now time.Time, interval time.Duration) Sample {
	p.nextDue = now.Add(interval)

	s := Sample{At: now}

	if v, err := cpu.Percent(0, false); err == nil && len(v) > 0 {
		s.CPUPercent = v[0]
	}
	if m, err := mem.VirtualMemory(); err == nil && m != nil {
		s.MemPercent = m.UsedPercent
	}
	if up, err := host.Uptime(); err == nil {
		s.Uptime = int64(up)
	}
	s.TempC = readTemperature()

	if p.battery != nil {
		s.BatteryPct, s.BatteryVolt = p.battery.Read()
	}

	p.history.Push(s)

	return s
}

// History returns the sample ring.
func (p *Poller) History() *Ring {
	return &p.history
}

// readTemperature picks the first plausible thermal sensor. Boards differ
// in what they expose; zero means no sensor found.
func readTemperature() float64 {
	stats, err := host.SensorsTemperatures()
	if err != nil || len(stats) == 0 {
		return 0
	}

	for _, stat := range stats {
		if stat.Temperature > 0 && stat.Temperature < 150 {
			return stat.Temperature
		}
	}

	return 0
}
