// Package browser hides the rod browser behind the small set of page
// operations the availability scraper needs, so the scraping logic can be
// driven by an in-memory fake in tests.
package browser

import "context"

// Page is a single browser tab. Every method honours ctx as its deadline.
type Page interface {
	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// WaitFor blocks until at least one element matches selector.
	WaitFor(ctx context.Context, selector string) error

	// Input types text into the first element matching selector.
	Input(ctx context.Context, selector, text string) error

	// ClickFirst left-clicks the first element matching selector.
	ClickFirst(ctx context.Context, selector string) error

	// Text returns the visible text of the first element matching selector
	// without waiting for it to appear.
	Text(ctx context.Context, selector string) (string, error)

	// HTML returns the rendered document.
	HTML(ctx context.Context) (string, error)
}

// Session owns one browser process and the page it drives.
type Session interface {
	Page() Page

	// Close kills the browser. It is safe to call more than once.
	Close() error
}

// Launcher opens a fresh Session. The run loop calls it once per attempt.
type Launcher func(ctx context.Context) (Session, error)
