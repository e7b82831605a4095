package scraper

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/use-agent/addrcheck/classifier"
	"github.com/use-agent/addrcheck/config"
	"github.com/use-agent/addrcheck/models"
)

var errFake = errors.New("fake browser failure")

// fakePage simulates the availability widget. The heading for the address
// most recently typed is read from headings; reads past the end repeat the
// last entry.
type fakePage struct {
	mu sync.Mutex

	headings map[string][]string
	// failAt names the step that fails for an address: "navigate", "input",
	// "click", "wait-heading" or "text".
	failAt map[string]string

	// navigateDelay is how long Navigate takes to reach the load event.
	navigateDelay time.Duration

	current string
	reads   int
	typed   []string
}

func newFakePage() *fakePage {
	return &fakePage{
		headings: map[string][]string{},
		failAt:   map[string]string{},
	}
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = ""
	if p.failAt[""] == "navigate" {
		return errFake
	}
	if p.navigateDelay > 0 {
		return sleep(ctx, p.navigateDelay)
	}
	return ctx.Err()
}

func (p *fakePage) WaitFor(ctx context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if selector == testSelectors.Heading && p.failAt[p.current] == "wait-heading" {
		// Emulate the element never showing up before the step deadline.
		<-ctx.Done()
		return ctx.Err()
	}
	return ctx.Err()
}

func (p *fakePage) Input(ctx context.Context, selector, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = text
	p.reads = 0
	p.typed = append(p.typed, text)
	if p.failAt[text] == "input" {
		return errFake
	}
	return nil
}

func (p *fakePage) ClickFirst(ctx context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAt[p.current] == "click" {
		return errFake
	}
	return nil
}

func (p *fakePage) Text(ctx context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reads++
	if p.failAt[p.current] == "text" {
		return "", errFake
	}
	seq := p.headings[p.current]
	if len(seq) == 0 {
		return "", errFake
	}
	i := p.reads - 1
	if i >= len(seq) {
		i = len(seq) - 1
	}
	return seq[i], nil
}

func (p *fakePage) HTML(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	heading := ""
	if seq := p.headings[p.current]; len(seq) > 0 {
		heading = seq[len(seq)-1]
	}
	return "<html><head><style>h3{color:red}</style></head><body>" +
		"<h3>" + heading + "</h3><script>track()</script>" +
		"<p>Checked address: " + p.current + "</p></body></html>", nil
}

var testSelectors = config.Selectors{
	AddressInput: "#check-availability-input",
	ResultItem:   ".results > li",
	Heading:      "h3",
}

func testConfig() config.ScraperConfig {
	return config.ScraperConfig{
		URL:                 "https://example.test/check-availability",
		Selectors:           testSelectors,
		NavigationTimeout:   time.Second,
		ElementTimeout:      50 * time.Millisecond,
		SettleDelay:         time.Millisecond,
		HeadingPollAttempts: 5,
		HeadingPollInterval: time.Millisecond,
		AddressDelay:        time.Millisecond,
		ErrorDelay:          time.Millisecond,
	}
}

func newTestScraper(auditDir string) *Scraper {
	var audit *AuditLog
	if auditDir != "" {
		audit = NewAuditLog(auditDir)
	}
	return New(testConfig(), classifier.New(models.DefaultLabelRules()), audit)
}
