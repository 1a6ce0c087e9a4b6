package progression

import (
	"sync"
	"sync/atomic"

	"github.com/codequest-game/codequest/internal/domain"
)

// mentorFeedSize bounds the mentor feed; oldest entries are dropped.
const mentorFeedSize = 5

// MentorFeed is the bounded in-memory feed of mentor messages shown
// alongside the editor. Not persisted.
type MentorFeed struct {
	clock domain.Clock

	mu     sync.Mutex
	nextID atomic.Int64
	msgs   []domain.MentorMessage
}

// NewMentorFeed creates an empty mentor feed.
func NewMentorFeed(clock domain.Clock) *MentorFeed {
	return &MentorFeed{clock: clock}
}

// Push appends a message, evicting the oldest past the feed bound.
func (f *MentorFeed) Push(text string, typ domain.MentorMessageType) domain.MentorMessage {
	msg := domain.MentorMessage{
		ID:        f.nextID.Add(1),
		Text:      text,
		Type:      typ,
		Timestamp: f.clock.Now(),
	}

	f.mu.Lock()
	f.msgs = append(f.msgs, msg)
	if len(f.msgs) > mentorFeedSize {
		f.msgs = f.msgs[len(f.msgs)-mentorFeedSize:]
	}
	f.mu.Unlock()
	return msg
}

// Messages returns the current feed, oldest first.
func (f *MentorFeed) Messages() []domain.MentorMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.MentorMessage(nil), f.msgs...)
}

// Reset empties the feed.
func (f *MentorFeed) Reset() {
	f.mu.Lock()
	f.msgs = nil
	f.mu.Unlock()
}
