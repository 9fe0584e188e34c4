package domain

// MessageLocation points at a guild's persistent time message.
type MessageLocation struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
}

// Embed is a platform-neutral rich message body.
type Embed struct {
	Title       string
	Description string
	Colour      int // 0xRRGGBB
}
