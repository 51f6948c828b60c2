// Package devices maps named device-emulation presets to Rod device
// descriptors (viewport, pixel ratio, mobile user-agent).
package devices

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-rod/rod/lib/devices"

	"github.com/neilthomass/instaPFP/models"
)

// Default is the preset used when a request names no device.
const Default = "iphone-12-pro"

// IPhone12Pro is not in Rod's built-in device list; the descriptor matches
// the Chrome DevTools emulation entry of the same name.
var IPhone12Pro = devices.Device{
	Title:          "iPhone 12 Pro",
	Capabilities:   []string{"touch", "mobile"},
	UserAgent:      "Mozilla/5.0 (iPhone; CPU iPhone OS 14_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Mobile/15E148 Safari/604.1",
	AcceptLanguage: "en",
	Screen: devices.Screen{
		DevicePixelRatio: 3,
		Horizontal:       devices.ScreenSize{Width: 844, Height: 390},
		Vertical:         devices.ScreenSize{Width: 390, Height: 844},
	},
}

var presets = map[string]devices.Device{
	"iphone-12-pro": IPhone12Pro,
	"iphone-x":      devices.IPhoneX,
	"iphone-8":      devices.IPhone6or7or8,
	"ipad-mini":     devices.IPadMini,
	"pixel-2":       devices.Pixel2,
	"galaxy-s5":     devices.GalaxyS5,
}

// Lookup resolves a preset name to its device descriptor. Names are matched
// case-insensitively with spaces and underscores treated as dashes, so
// "iPhone 12 Pro" and "iphone-12-pro" are the same preset.
func Lookup(name string) (devices.Device, error) {
	d, ok := presets[normalize(name)]
	if !ok {
		return devices.Device{}, models.NewFetchError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("unknown device %q (known: %s)", name, strings.Join(Names(), ", ")),
			nil,
		)
	}
	return d, nil
}

// Names returns all preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")
	return name
}
