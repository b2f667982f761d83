// Package source extracts product prices from the bullion rate page
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/raykavin/pricewatch/pkg/core"
	"github.com/raykavin/pricewatch/pkg/logger"
)

// Page structure of the rate table
const (
	rowSelector          = ".m_prodct"
	nameSelector         = ".m_width1"
	bidSelector          = ".m_width2:nth-of-type(2) .redgreen"
	askSelector          = ".m_width2:nth-of-type(3) .redgreen"
	interstitialSelector = "#proceed-button"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36"

	defaultFetchTimeout        = 30 * time.Second
	defaultNavigationTimeout   = 60 * time.Second
	defaultInterstitialTimeout = 5 * time.Second
)

var leadingNumber = regexp.MustCompile(`^[-+]?(?:\d+(?:\.\d*)?|\.\d+)`)

// Config describes where and what to scrape
type Config struct {
	URL       string
	Label     string
	UserAgent string

	FetchTimeout        time.Duration // Per poll reload
	NavigationTimeout   time.Duration // First navigation in Prepare
	InterstitialTimeout time.Duration // Optional proceed page
}

// HTMLSource implements core.PriceSource over plain HTTP and goquery
type HTMLSource struct {
	config Config
	client *http.Client
	log    logger.Logger
}

// Option is a function that configures an HTMLSource
type Option func(source *HTMLSource)

// WithHTTPClient replaces the default cookie-aware client
func WithHTTPClient(client *http.Client) Option {
	return func(source *HTMLSource) {
		source.client = client
	}
}

// NewHTMLSource creates a price source for the given page and product label
func NewHTMLSource(config Config, log logger.Logger, options ...Option) (*HTMLSource, error) {
	if _, err := url.ParseRequestURI(config.URL); err != nil {
		return nil, fmt.Errorf("invalid source url %q: %w", config.URL, err)
	}
	if config.Label == "" {
		return nil, errors.New("product label is required")
	}

	applyDefaults(&config)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	source := &HTMLSource{
		config: config,
		client: &http.Client{Jar: jar},
		log:    log,
	}

	for _, option := range options {
		option(source)
	}

	return source, nil
}

func applyDefaults(config *Config) {
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = defaultFetchTimeout
	}
	if config.NavigationTimeout <= 0 {
		config.NavigationTimeout = defaultNavigationTimeout
	}
	if config.InterstitialTimeout <= 0 {
		config.InterstitialTimeout = defaultInterstitialTimeout
	}
}

// Prepare performs the first navigation and passes the interstitial page
// when one is shown. A missing interstitial is not an error.
func (s *HTMLSource) Prepare(ctx context.Context) error {
	s.log.WithField("url", s.config.URL).Info("navigating to website")

	doc, err := s.load(ctx, s.config.URL, s.config.NavigationTimeout)
	if err != nil {
		return err
	}

	s.log.Info("website loaded")

	if err := s.proceed(ctx, doc); err != nil {
		s.log.WithError(err).Info("proceed button not found or already passed")
		return nil
	}

	s.log.Info("clicked proceed button")
	return nil
}

// proceed follows the interstitial "proceed" link, if the page has one
func (s *HTMLSource) proceed(ctx context.Context, doc *goquery.Document) error {
	button := doc.Find(interstitialSelector).First()
	if button.Length() == 0 {
		return errors.New("no interstitial")
	}

	target, ok := button.Attr("href")
	if !ok {
		target, ok = button.Closest("form").Attr("action")
	}
	if !ok || target == "" {
		return errors.New("interstitial has no destination")
	}

	next, err := doc.Url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid interstitial destination: %w", err)
	}

	_, err = s.load(ctx, next.String(), s.config.InterstitialTimeout)
	return err
}

// Fetch reloads the page and extracts the configured product row
func (s *HTMLSource) Fetch(ctx context.Context) (core.PriceReading, error) {
	doc, err := s.load(ctx, s.config.URL, s.config.FetchTimeout)
	if err != nil {
		return core.PriceReading{}, err
	}

	return Extract(doc, s.config.Label, s.config.URL)
}

// Extract finds the first row whose name cell contains label
func Extract(doc *goquery.Document, label, pageURL string) (core.PriceReading, error) {
	rows := doc.Find(rowSelector)
	if rows.Length() == 0 {
		return core.PriceReading{}, &core.SourceError{
			Kind: core.ErrStructureMissing,
			URL:  pageURL,
			Err:  fmt.Errorf("no %s rows", rowSelector),
		}
	}

	var (
		reading core.PriceReading
		found   bool
	)

	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		name := row.Find(nameSelector).First()
		if name.Length() == 0 || !strings.Contains(name.Text(), label) {
			return true
		}

		reading = core.PriceReading{
			Label: strings.TrimSpace(name.Text()),
			Bid:   parseCell(row.Find(bidSelector).First()),
			Ask:   parseCell(row.Find(askSelector).First()),
		}
		found = true
		return false
	})

	if !found {
		return core.PriceReading{}, &core.SourceError{
			Kind: core.ErrDataNotFound,
			URL:  pageURL,
			Err:  errors.New(label),
		}
	}

	return reading, nil
}

// parseCell reads the leading number of a price cell, ignoring thousands
// separators and currency signs. Missing or unreadable cells give nil.
func parseCell(cell *goquery.Selection) *float64 {
	if cell.Length() == 0 {
		return nil
	}

	text := strings.NewReplacer(",", "", "₹", "", " ", "").Replace(strings.TrimSpace(cell.Text()))
	number := leadingNumber.FindString(text)
	if number == "" {
		return nil
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return nil
	}

	return &value
}

func (s *HTMLSource) load(ctx context.Context, pageURL string, timeout time.Duration) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	unavailable := func(err error) error {
		return &core.SourceError{Kind: core.ErrSourceUnavailable, URL: pageURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, unavailable(err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, unavailable(fmt.Errorf("unexpected status %s", resp.Status))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, unavailable(fmt.Errorf("failed to parse page: %w", err))
	}
	doc.Url = resp.Request.URL

	return doc, nil
}
