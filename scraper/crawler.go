// Package scraper harvests structured event records from a dynamically
// loaded listing page. The crawler drives a headless browser session,
// reveals all entries through scrolling and "show more" controls, and
// extracts each entry's embedded data block; the converter turns the raw
// blocks into draft events.
package scraper

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens/config"
	"github.com/eventlens-io/eventlens/pkg/retry"
	"github.com/eventlens-io/eventlens/scraper/cache"
	"github.com/eventlens-io/eventlens/utils"
)

const (
	// staleRetryAttempts bounds re-extraction of an entry whose element was
	// detached from the document between locating and reading it.
	staleRetryAttempts = 3

	overlayTimeout = 3 * time.Second
	scrollInterval = 500 * time.Millisecond
)

var errStaleElement = errors.New("element detached from document")

type extractResult struct {
	Found   bool   `json:"found"`
	Payload string `json:"payload"`
}

// extractScript re-resolves a listing element by its xpath and reads its
// embedded data block. found=false means the element is gone (stale); an
// empty payload means the element carries no data block.
const extractScript = `(function() {
	var result = document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null);
	var el = result.singleNodeValue;
	if (!el) {
		return {found: false, payload: ""};
	}
	var block = el.querySelector('script[type="application/ld+json"]');
	return {found: true, payload: block ? block.textContent : ""};
})()`

type Crawler struct {
	cfg   *config.CrawlerConfig
	cache *cache.Store
	log   *zap.SugaredLogger
}

func NewCrawler(cfg *config.CrawlerConfig, store *cache.Store, log *zap.SugaredLogger) *Crawler {
	return &Crawler{
		cfg:   cfg,
		cache: store,
		log:   log,
	}
}

// Crawl opens a browser session against the configured listing page and
// returns the newly discovered payloads keyed by content hash. Payloads seen
// in earlier runs are dropped. A fatal session error aborts the crawl and
// yields an empty result; partial extractions are discarded.
func (c *Crawler) Crawl(ctx context.Context) map[string]string {
	payloads, err := c.crawl(ctx)
	if err != nil {
		c.log.Errorf("crawl of %s aborted: %v", c.cfg.URL, err)
		return map[string]string{}
	}
	c.log.Infof("crawl of %s finished with %d new payloads", c.cfg.URL, len(payloads))
	return payloads
}

func (c *Crawler) crawl(ctx context.Context) (map[string]string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.cfg.Headless),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	sessionCtx, cancelSession := chromedp.NewContext(allocCtx)
	defer cancelSession()

	sessionCtx, cancelTimeout := context.WithTimeout(sessionCtx, c.cfg.Timeout)
	defer cancelTimeout()

	if err := chromedp.Run(sessionCtx, chromedp.Navigate(c.cfg.URL)); err != nil {
		return nil, errors.Wrap(err, "opening listing page")
	}

	c.dismissOverlay(sessionCtx)

	if err := c.revealAll(sessionCtx); err != nil {
		return nil, errors.Wrap(err, "revealing listing entries")
	}

	return c.extractAll(sessionCtx)
}

// dismissOverlay clicks away a blocking consent overlay if one shows up.
// Absence of the overlay is the common case and not an error.
func (c *Crawler) dismissOverlay(ctx context.Context) {
	if c.cfg.OverlaySelector == "" {
		return
	}
	clickCtx, cancel := context.WithTimeout(ctx, overlayTimeout)
	defer cancel()
	if err := chromedp.Run(clickCtx, chromedp.Click(c.cfg.OverlaySelector, chromedp.ByQuery)); err != nil {
		c.log.Debugf("no blocking overlay to dismiss: %v", err)
	}
}

// revealAll scrolls to the bottom until the document height stays unchanged
// for the quiescence window. While the page is stalled but not yet quiescent
// it clicks the "show more" control; when none is left, loading is done.
func (c *Crawler) revealAll(ctx context.Context) error {
	var lastHeight float64
	quietSince := time.Now()

	for {
		if err := c.scrollToBottom(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(scrollInterval):
		}

		var height float64
		if err := chromedp.Run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &height)); err != nil {
			return errors.Wrap(err, "reading document height")
		}
		if height != lastHeight {
			lastHeight = height
			quietSince = time.Now()
			continue
		}
		if time.Since(quietSince) >= c.cfg.Quiescence {
			return nil
		}
		if !c.clickShowMore(ctx) {
			return nil
		}
	}
}

// scrollToBottom targets the start of the footer when one exists, so the
// scroll position does not depend on the footer's own height.
func (c *Crawler) scrollToBottom(ctx context.Context) error {
	script := fmt.Sprintf(`(function() {
		var footer = document.querySelector(%s);
		if (footer) {
			footer.scrollIntoView({block: "start"});
		} else {
			window.scrollTo(0, document.body.scrollHeight);
		}
	})()`, strconv.Quote(c.cfg.FooterSelector))
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, nil)); err != nil {
		return errors.Wrap(err, "scrolling to bottom")
	}
	return nil
}

func (c *Crawler) clickShowMore(ctx context.Context) bool {
	if c.cfg.ShowMoreSelector == "" {
		return false
	}
	script := fmt.Sprintf(`(function() {
		var button = document.querySelector(%s);
		if (!button || button.offsetParent === null) {
			return false;
		}
		button.click();
		return true;
	})()`, strconv.Quote(c.cfg.ShowMoreSelector))

	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		c.log.Debugf("show more control not clickable: %v", err)
		return false
	}
	return clicked
}

// extractAll reads the embedded data block of every listing entry and
// submits it to the content cache; only payloads not seen before are
// returned. Entries without a data block are skipped without retrying.
func (c *Crawler) extractAll(ctx context.Context) (map[string]string, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(ctx, chromedp.Nodes(c.cfg.ListingSelector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, errors.Wrap(err, "locating listing entries")
	}
	c.log.Infof("found %d listing entries", len(nodes))

	fresh := make(map[string]string)
	for _, node := range nodes {
		payload, err := c.extractOne(ctx, node.FullXPath())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Warnf("skipping listing entry: %v", err)
			continue
		}
		if payload == "" {
			continue
		}
		if c.cache.TryAdd(payload) {
			fresh[utils.Sha256(payload)] = payload
		}
	}
	return fresh, nil
}

// extractOne reads one entry's data block, retrying when the element was
// detached from the document between steps.
func (c *Crawler) extractOne(ctx context.Context, xpath string) (string, error) {
	var payload string
	err := retry.Do(staleRetryAttempts, func(err error) bool {
		return errors.Is(err, errStaleElement)
	}, func() error {
		script := fmt.Sprintf(extractScript, strconv.Quote(xpath))
		var result extractResult
		if err := chromedp.Run(ctx, chromedp.Evaluate(script, &result)); err != nil {
			return errors.Wrap(err, "reading data block")
		}
		if !result.Found {
			return errors.Wrapf(errStaleElement, "entry %s", xpath)
		}
		payload = result.Payload
		return nil
	})
	return payload, err
}
