package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/use-agent/addrcheck/config"
	"github.com/use-agent/addrcheck/models"
)

// ErrNoElement is returned by Text when nothing matches the selector.
var ErrNoElement = errors.New("no element matches selector")

// RodSession is a Session backed by a locally launched Chromium.
type RodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rodPage
	router   *rod.HijackRouter

	closeOnce sync.Once
	closeErr  error
}

// NewLauncher returns a Launcher that starts a browser configured by cfg.
func NewLauncher(cfg config.BrowserConfig) Launcher {
	return func(ctx context.Context) (Session, error) {
		s, err := Launch(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Launch starts Chromium, connects to it and opens the single working page.
// Any failure kills whatever was already started.
func Launch(ctx context.Context, cfg config.BrowserConfig) (*RodSession, error) {
	l := newLauncher(cfg.BrowserBin, cfg.Headless).Context(ctx)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Debug("browser launched", "controlURL", controlURL, "headless", cfg.Headless)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		stopProcess(l)
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	s := &RodSession{launcher: l, browser: b}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, models.NewScrapeError(models.ErrCodeBrowser, "failed to open page", err)
	}

	if cfg.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			_ = s.Close()
			return nil, models.NewScrapeError(models.ErrCodeBrowser, "failed to inject stealth script", err)
		}
	}

	s.router = setupHijack(page, cfg.BlockedResourceTypes)
	s.page = &rodPage{page: page}
	return s, nil
}

// Page returns the session's working page.
func (s *RodSession) Page() Page { return s.page }

// Close stops request interception and kills the browser process.
func (s *RodSession) Close() error {
	s.closeOnce.Do(func() {
		if s.router != nil {
			_ = s.router.Stop()
		}
		s.closeErr = s.browser.Close()
		stopProcess(s.launcher)
		slog.Debug("browser closed")
	})
	return s.closeErr
}

// process is the part of *launcher.Launcher that owns the browser process
// and its temporary user-data directory.
type process interface {
	Kill()
	Cleanup()
}

// stopProcess kills the browser and removes its user-data directory.
func stopProcess(p process) {
	p.Kill()
	p.Cleanup()
}

// rodPage adapts *rod.Page to Page. Each call binds the page to the
// caller's context so rod's internal retries stop at the deadline.
type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	pg := p.page.Context(ctx)
	if err := pg.Navigate(url); err != nil {
		return err
	}
	return pg.WaitLoad()
}

func (p *rodPage) WaitFor(ctx context.Context, selector string) error {
	return p.page.Context(ctx).WaitElementsMoreThan(selector, 0)
}

func (p *rodPage) Input(ctx context.Context, selector, text string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("element %q not found: %w", selector, err)
	}
	return el.Input(text)
}

func (p *rodPage) ClickFirst(ctx context.Context, selector string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("element %q not found: %w", selector, err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (p *rodPage) Text(ctx context.Context, selector string) (string, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return "", err
	}
	if els.Empty() {
		return "", fmt.Errorf("%w: %q", ErrNoElement, selector)
	}
	return els.First().Text()
}

func (p *rodPage) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}
