package model

// ExportRecord is one element of an export file. Field names follow the
// archive's historical wire format so files from older installations import
// cleanly; post_author is numeric-as-string and may be absent, channel_id is
// 0 when the message has no channel.
type ExportRecord struct {
	ID        int64               `json:"ID,omitempty"`
	Title     string              `json:"post_title"`
	Content   string              `json:"post_content"`
	Date      string              `json:"post_date"`
	Status    string              `json:"post_status,omitempty"`
	Author    string              `json:"post_author,omitempty"`
	Meta      map[string][]string `json:"meta,omitempty"`
	ChannelID int64               `json:"channel_id"`
}

// ImportBatch is one persisted slice of an uploaded export file, owned by the
// background queue until its task callback returns.
type ImportBatch struct {
	ID      int64
	Queue   string
	Payload []byte
	Ctime   int64
}
