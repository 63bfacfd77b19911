package server

import (
	"context"
	"strings"
	"sync"
	"time"
)

type ContactMessage struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Subject  string    `json:"subject,omitempty"`
	Message  string    `json:"message"`
	Country  string    `json:"country,omitempty"`
	Received time.Time `json:"receivedAt"`
}

type Subscriber struct {
	Email    string    `json:"email"`
	Source   string    `json:"source,omitempty"`
	Country  string    `json:"country,omitempty"`
	Received time.Time `json:"receivedAt"`
}

type Review struct {
	CasinoID    string    `json:"casinoId"`
	Rating      int       `json:"rating"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail,omitempty"`
	Status      string    `json:"status"`
	Received    time.Time `json:"receivedAt"`
}

type Click struct {
	CasinoID  string    `json:"casinoId"`
	TargetURL string    `json:"targetUrl"`
	Placement string    `json:"placement,omitempty"`
	Country   string    `json:"country,omitempty"`
	At        time.Time `json:"at"`
}

// Sink recebe as submissões; persistência de verdade fica fora deste serviço.
type Sink interface {
	SaveContact(ctx context.Context, m ContactMessage) error
	// Subscribe retorna created=false quando o e-mail já estava inscrito.
	Subscribe(ctx context.Context, s Subscriber) (created bool, err error)
	SaveReview(ctx context.Context, r Review) error
	RecordClick(ctx context.Context, c Click) error
}

// MemorySink guarda tudo em memória. Útil para testes e desenvolvimento.
type MemorySink struct {
	mu          sync.Mutex
	contacts    []ContactMessage
	subscribers map[string]Subscriber
	reviews     []Review
	clicks      []Click
}

func NewMemorySink() *MemorySink {
	return &MemorySink{subscribers: make(map[string]Subscriber)}
}

func (s *MemorySink) SaveContact(_ context.Context, m ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, m)
	return nil
}

func (s *MemorySink) Subscribe(_ context.Context, sub Subscriber) (bool, error) {
	key := strings.ToLower(sub.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[key]; ok {
		return false, nil
	}
	s.subscribers[key] = sub
	return true, nil
}

func (s *MemorySink) SaveReview(_ context.Context, r Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, r)
	return nil
}

func (s *MemorySink) RecordClick(_ context.Context, c Click) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicks = append(s.clicks, c)
	return nil
}

func (s *MemorySink) Contacts() []ContactMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ContactMessage(nil), s.contacts...)
}

func (s *MemorySink) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

func (s *MemorySink) Reviews() []Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Review(nil), s.reviews...)
}

func (s *MemorySink) Clicks() []Click {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Click(nil), s.clicks...)
}
