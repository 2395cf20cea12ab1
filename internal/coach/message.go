package coach

import "fmt"

// Sender identifies who produced a message.
type Sender int

const (
	SenderUser Sender = iota
	SenderAssistant
)

func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderAssistant:
		return "assistant"
	default:
		return fmt.Sprintf("sender(%d)", int(s))
	}
}

// Message is a single exchanged message. Content may contain markdown.
type Message struct {
	Sender  Sender
	Content string
}

// Log is the append-only record of a session's messages.
// It is not safe for concurrent use; the owning Session serializes access.
type Log struct {
	messages []Message
}

// NewLog returns a log seeded with the greeting.
func NewLog(greeting string) *Log {
	l := &Log{}
	l.Reset(greeting)
	return l
}

// Append pushes a message to the end of the log.
func (l *Log) Append(sender Sender, content string) {
	l.messages = append(l.messages, Message{Sender: sender, Content: content})
}

// Reset discards every message and seeds the greeting again.
func (l *Log) Reset(greeting string) {
	l.messages = []Message{{Sender: SenderAssistant, Content: greeting}}
}

func (l *Log) Len() int {
	return len(l.messages)
}

// Messages returns a copy of the log.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}
