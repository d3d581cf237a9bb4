// Package netinfo probes the board's connectivity for the network screen
// and the web status endpoint: active interface, address, and the wireless
// link state.
package netinfo

import (
	"context"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Info is one connectivity probe. Zero fields mean the source was
// unavailable, never an error.
type Info struct {
	Hostname  string `json:"hostname"`
	Interface string `json:"interface"`
	IP        string `json:"ip"`
	MAC       string `json:"mac"`
	SSID      string `json:"ssid"`
	RSSI      int    `json:"rssi"`
	Online    bool   `json:"online"`
}

// Probe gathers the current state. Wireless interfaces win over wired ones
// when both carry an address, matching what the panel user cares about.
func Probe(ctx context.Context) Info {
	info := Info{}
	if name, err := os.Hostname(); err == nil {
		info.Hostname = name
	}

	interfaces, err := net.Interfaces()
	if err != nil {
		return info
	}

	var wired *net.Interface
	for i := range interfaces {
		iface := interfaces[i]
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		if ipv4Of(&iface) == "" {
			continue
		}
		if isWireless(iface.Name) {
			fill(&info, &iface)
			info.SSID = currentSSID(ctx, iface.Name)
			info.RSSI = wirelessRSSI(iface.Name)

			return info
		}
		if wired == nil {
			wired = &interfaces[i]
		}
	}

	if wired != nil {
		fill(&info, wired)
	}

	return info
}

func fill(info *Info, iface *net.Interface) {
	info.Interface = iface.Name
	info.IP = ipv4Of(iface)
	info.MAC = iface.HardwareAddr.String()
	info.Online = info.IP != ""
}

func isWireless(name string) bool {
	return strings.HasPrefix(name, "wlan") || strings.HasPrefix(name, "wl")
}

func ipv4Of(iface *net.Interface) string {
	addrs, err := iface.Addrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}

	return ""
}

// currentSSID shells out to iwgetid, the one portable way to learn the
// association without speaking nl80211.
func currentSSID(ctx context.Context, iface string) string {
	runCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out, err := exec.CommandContext(runCtx, "iwgetid", "-r", iface).Output()
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(out))
}

// wirelessRSSI reads the kernel's /proc/net/wireless table.
func wirelessRSSI(iface string) int {
	raw, err := os.ReadFile("/proc/net/wireless")
	if err != nil {
		return 0
	}

	return parseWirelessRSSI(string(raw), iface)
}

// parseWirelessRSSI pulls the signal level column for one interface out of
// a /proc/net/wireless dump. Returns 0 when the interface is absent.
func parseWirelessRSSI(table, iface string) int {
	for _, line := range strings.Split(table, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || !strings.HasPrefix(fields[0], iface+":") {
			continue
		}

		// Columns: iface, status, link quality, signal level, ...
		level := strings.TrimSuffix(fields[3], ".")
		rssi, err := strconv.Atoi(level)
		if err != nil {
			return 0
		}

		return rssi
	}

	return 0
}
