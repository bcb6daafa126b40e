package scrapers

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nightjol/nightjol/pkg/domain"
	"github.com/nightjol/nightjol/pkg/logger"
)

const maxComputicketEvents = 50

// ComputicketScraper pulls the public listings page and mines it for
// card-like elements. Computicket has no public API, so extraction is
// structural: first heading, first class-contains-"location" element,
// first class-contains-"date" element, first image, first link.
type ComputicketScraper struct {
	*BaseScraper
	baseURL string
	now     func() time.Time
}

func NewComputicketScraper(config ScrapingConfig) *ComputicketScraper {
	return &ComputicketScraper{
		BaseScraper: NewBaseScraper(config),
		baseURL:     "https://computicket.com",
		now:         time.Now,
	}
}

func (s *ComputicketScraper) Name() string {
	return "computicket"
}

// FetchEvents degrades to an empty list on any failure; a broken scrape
// must never take the aggregation down with it.
func (s *ComputicketScraper) FetchEvents(ctx context.Context) []domain.Event {
	events, err := s.scrapeListings(ctx)
	if err != nil {
		logger.Errorf("computicket: scrape failed: %v", err)
		return nil
	}
	return events
}

func (s *ComputicketScraper) scrapeListings(ctx context.Context) ([]domain.Event, error) {
	resp, err := s.MakeRequest(ctx, s.baseURL+"/event", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("computicket returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	events := []domain.Event{}
	seen := make(map[string]bool)
	for _, card := range findCardNodes(doc) {
		event, ok := s.extractEvent(card)
		if !ok {
			continue
		}
		if seen[event.ID] {
			continue
		}
		seen[event.ID] = true
		events = append(events, event)
		if len(events) >= maxComputicketEvents {
			break
		}
	}

	return events, nil
}

func (s *ComputicketScraper) extractEvent(card *html.Node) (domain.Event, bool) {
	title := s.ExtractText(textContent(findFirst(card, isTitleNode)))
	if len(title) <= 3 {
		return domain.Event{}, false
	}

	location := s.ExtractText(textContent(findFirst(card, classContainsAny("location", "venue"))))
	if location == "" {
		location = "South Africa"
	}

	dateText := s.ExtractText(textContent(findFirst(card, classContainsAny("date"))))

	imageURL := attrValue(findFirst(card, isElement("img")), "src")
	if imageURL == "" {
		imageURL = "https://via.placeholder.com/400x300?text=Event"
	} else if !strings.HasPrefix(imageURL, "http") {
		if normalized, err := s.NormalizeURL(s.baseURL, imageURL); err == nil {
			imageURL = normalized
		}
	}

	return domain.Event{
		ID:          "computicket-" + slugify(title),
		Name:        title,
		Description: title + " - Entertainment",
		Location:    location,
		Price:       0,
		DateTime:    s.parseListingDate(dateText),
		ImageURL:    imageURL,
		Category:    "Entertainment",
	}, true
}

var listingDatePattern = regexp.MustCompile(`(?i)(\d{1,2})\s+(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\s+(\d{4})`)

var listingMonths = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// parseListingDate recognizes the "12 SEP 2026" style Computicket uses;
// anything else (including "TBA") becomes a deterministic week-out
// fallback so the listing still filters and sorts as upcoming.
func (s *ComputicketScraper) parseListingDate(dateText string) time.Time {
	if dateText == "" || dateText == "TBA" {
		return s.now().Add(7 * 24 * time.Hour)
	}

	match := listingDatePattern.FindStringSubmatch(dateText)
	if match == nil {
		return s.now().Add(7 * 24 * time.Hour)
	}

	day, _ := strconv.Atoi(match[1])
	month := listingMonths[strings.ToUpper(match[2])]
	year, _ := strconv.Atoi(match[3])

	return time.Date(year, month, day, 18, 0, 0, 0, time.Local)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]`)

func slugify(title string) string {
	return slugPattern.ReplaceAllString(strings.ToLower(title), "-")
}

// findCardNodes collects elements whose class attribute contains
// "feature" or "card". Nested matches are skipped so one listing card
// yields one event.
func findCardNodes(doc *html.Node) []*html.Node {
	var cards []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && classContainsAny("feature", "card")(n) {
			cards = append(cards, n)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return cards
}

func isTitleNode(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "h1", "h2", "h3", "h4":
		return true
	}
	for _, class := range strings.Fields(attrValue(n, "class")) {
		if class == "title" {
			return true
		}
	}
	return false
}

func isElement(name string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

func classContainsAny(substrings ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		class := strings.ToLower(attrValue(n, "class"))
		if class == "" {
			return false
		}
		for _, sub := range substrings {
			if strings.Contains(class, sub) {
				return true
			}
		}
		return false
	}
}

// findFirst returns the first node in document order matching the
// predicate, searching the subtree below root.
func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if match(child) {
			return child
		}
		if found := findFirst(child, match); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

func attrValue(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
