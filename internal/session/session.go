// Package session holds the per-client state that the handlers pass explicitly to services.
package session

import (
	"sync"
	"time"

	"stocksense/internal/dto"
	"stocksense/pkg/utils"

	"github.com/google/uuid"
)

// Session is anonymous while UserID is nil.
type Session struct {
	mu sync.Mutex

	ID            string
	UserID        *uint
	Username      string
	CurrentTicker string
	Quote         *dto.StockQuote
	IsFavorite    bool
	ChatHistory   []dto.ChatMessage
	StartedAt     time.Time
}

func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: utils.TimeNowUTC(),
	}
}

// Lock serialises requests that share a session cookie.
func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != nil
}

func (s *Session) SetUser(userID uint, username string) {
	s.UserID = &userID
	s.Username = username
}

// Clear drops the identity and everything fetched under it. The session id survives.
func (s *Session) Clear() {
	s.UserID = nil
	s.Username = ""
	s.CurrentTicker = ""
	s.Quote = nil
	s.IsFavorite = false
	s.ChatHistory = nil
	s.StartedAt = utils.TimeNowUTC()
}

// SetStock switches the current ticker. A different ticker resets the chat.
func (s *Session) SetStock(ticker string, quote *dto.StockQuote, isFavorite bool) {
	if s.CurrentTicker != ticker {
		s.ChatHistory = nil
	}
	s.CurrentTicker = ticker
	s.Quote = quote
	s.IsFavorite = isFavorite
}

func (s *Session) AppendChat(messages ...dto.ChatMessage) {
	s.ChatHistory = append(s.ChatHistory, messages...)
}

func (s *Session) ToResponse() dto.SessionResponse {
	return dto.SessionResponse{
		Authenticated: s.IsAuthenticated(),
		UserID:        s.UserID,
		Username:      s.Username,
		CurrentTicker: s.CurrentTicker,
		StartedAt:     s.StartedAt,
	}
}
