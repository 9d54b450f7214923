package fifotest

// Message is the unit of exchange for one round. The payload is generated
// once and then shared read-only by the transmitter and the receiver;
// neither actor may modify it.
type Message struct {
	Payload []byte
}

// Len returns the message length in bytes
func (m *Message) Len() int {
	return len(m.Payload)
}

// Generator builds one message per round from the random source
type Generator struct {
	src      *Source
	maxLen   int
	fixedLen int
}

// NewGenerator creates a message generator. When fixedLen is zero, each
// message length is drawn uniformly from [1, maxLen]; otherwise every
// message is exactly fixedLen bytes.
func NewGenerator(src *Source, maxLen, fixedLen int) *Generator {
	return &Generator{
		src:      src,
		maxLen:   maxLen,
		fixedLen: fixedLen,
	}
}

// Generate draws the next message from the random source: the length
// first (when variable), then every payload byte in order.
func (g *Generator) Generate() *Message {
	length := g.fixedLen
	if length == 0 {
		length = g.src.NextRange(1, g.maxLen)
	}

	payload := make([]byte, length)
	for i := range payload {
		payload[i] = g.src.NextByte()
	}

	return &Message{Payload: payload}
}
