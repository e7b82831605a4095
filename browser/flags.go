package browser

import (
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// compatFlags are always set on the launched browser. They let the check
// page load behind intercepting proxies and inside containers.
var compatFlags = []flags.Flag{
	"start-maximized",
	"ignore-certificate-errors",
	"ignore-ssl-errors",
	"allow-running-insecure-content",
	"disable-dev-shm-usage",
	"disable-extensions",
	"disable-gpu",
	"disable-setuid-sandbox",
}

// newLauncher builds the launcher without starting a browser.
func newLauncher(bin string, headless bool) *launcher.Launcher {
	l := launcher.New().
		Headless(headless).
		NoSandbox(true)

	if bin != "" {
		l = l.Bin(bin)
	}

	for _, f := range compatFlags {
		l.Set(f)
	}
	l.Set(flags.Flag("log-level"), "3")

	// ── Automation fingerprint ──────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))

	return l
}
