package stores

import (
	"processingd/internal/models"
	"slices"
	"strings"
	"sync"
)

type SearchKeywordsStoreInterface interface {
	Keywords() []string
	SetKeywords(keywords []string)
	AddKeyword(keyword string) bool
	RemoveKeyword(keyword string) bool
	Matches(d *models.Donation) bool
}

// SearchKeywordsStore keeps the operator's highlight keywords, normalized to
// lower case and deduplicated.
type SearchKeywordsStore struct {
	mu       sync.RWMutex
	keywords []string
}

func NewSearchKeywordsStore() SearchKeywordsStoreInterface {
	return &SearchKeywordsStore{}
}

func normalizeKeyword(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func (s *SearchKeywordsStore) Keywords() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.keywords)
}

func (s *SearchKeywordsStore) SetKeywords(keywords []string) {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = normalizeKeyword(k)
		if k != "" && !slices.Contains(normalized, k) {
			normalized = append(normalized, k)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keywords = normalized
}

func (s *SearchKeywordsStore) AddKeyword(keyword string) bool {
	keyword = normalizeKeyword(keyword)
	if keyword == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.keywords, keyword) {
		return false
	}
	s.keywords = append(s.keywords, keyword)
	return true
}

func (s *SearchKeywordsStore) RemoveKeyword(keyword string) bool {
	keyword = normalizeKeyword(keyword)
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.Index(s.keywords, keyword)
	if idx < 0 {
		return false
	}
	s.keywords = slices.Delete(s.keywords, idx, idx+1)
	return true
}

// Matches reports whether the donor name or either comment contains a
// keyword.
func (s *SearchKeywordsStore) Matches(d *models.Donation) bool {
	if d == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.keywords) == 0 {
		return false
	}
	haystack := strings.ToLower(d.DonorName + "\n" + d.Comment + "\n" + d.ModComment)
	for _, k := range s.keywords {
		if strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}

type UserPreferencesStoreInterface interface {
	Preferences() models.UserPreferences
	SetPreferences(prefs models.UserPreferences)
}

type UserPreferencesStore struct {
	mu    sync.RWMutex
	prefs models.UserPreferences
}

func NewUserPreferencesStore() UserPreferencesStoreInterface {
	return &UserPreferencesStore{
		prefs: models.UserPreferences{Theme: "system", RelativeTimestamps: true},
	}
}

func (s *UserPreferencesStore) Preferences() models.UserPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

func (s *UserPreferencesStore) SetPreferences(prefs models.UserPreferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prefs.Theme == "" {
		prefs.Theme = s.prefs.Theme
	}
	s.prefs = prefs
}
