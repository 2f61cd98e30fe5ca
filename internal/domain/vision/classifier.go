package vision

import (
	"net/url"
	"strings"
)

// ClassifierConfig lists the substring patterns used to classify domains.
type ClassifierConfig struct {
	Auction     []string
	Marketplace []string
	Museum      []string
	Social      []string
	Academic    []string
	Suspicious  []string
}

// DefaultClassifierConfig returns the built-in pattern tables.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Auction:     []string{"auction", "christie", "sotheby", "bonhams", "phillips", "artnet", "invaluable"},
		Marketplace: []string{"ebay", "etsy", "amazon", "allegro", "olx", "marketplace", "shop", "store"},
		Museum: []string{
			"museum", "muzeum", "gallery", "galeria", "mnw", "mnk", "polona", "archive", "archiwum",
		},
		Social: []string{"facebook", "instagram", "pinterest", "twitter", "reddit", "tumblr"},
		Academic: []string{
			"edu", "jstor", "academia", "researchgate", "scholar", "university", "uniwersytet",
		},
		Suspicious: []string{
			"auction", "marketplace", "private-collection", "estate-sale",
			"anonymous", "untitled", "provenance-unknown",
		},
	}
}

type rule struct {
	category Category
	patterns []string
}

// Classifier categorizes domains and flags suspicious ones.
// It is immutable once built and safe for concurrent use.
type Classifier struct {
	rules      []rule
	suspicious []string
}

// NewClassifier builds a Classifier. Patterns are lowercased; empty patterns are dropped.
// Categories are checked in order: auction, marketplace, museum, social, academic.
func NewClassifier(cfg ClassifierConfig) Classifier {
	return Classifier{
		rules: []rule{
			{CategoryAuction, normalizePatterns(cfg.Auction)},
			{CategoryMarketplace, normalizePatterns(cfg.Marketplace)},
			{CategoryMuseum, normalizePatterns(cfg.Museum)},
			{CategorySocial, normalizePatterns(cfg.Social)},
			{CategoryAcademic, normalizePatterns(cfg.Academic)},
		},
		suspicious: normalizePatterns(cfg.Suspicious),
	}
}

// Categorize returns the first category whose patterns match the domain, or CategoryOther.
func (c Classifier) Categorize(domain string) Category {
	if domain == "" {
		return CategoryOther
	}
	d := strings.ToLower(domain)
	for _, r := range c.rules {
		if containsAny(d, r.patterns) {
			return r.category
		}
	}
	return CategoryOther
}

// IsSuspicious reports whether the domain contains a suspicious indicator.
// Independent of Categorize.
func (c Classifier) IsSuspicious(domain string) bool {
	if domain == "" {
		return false
	}
	return containsAny(strings.ToLower(domain), c.suspicious)
}

// ExtractDomain returns the lowercase host of rawURL without "www." or port.
// Returns "" when no host can be found.
func ExtractDomain(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "//" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func normalizePatterns(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
