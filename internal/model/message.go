package model

const (
	MessageStatusPublished = "published"
)

// Message is one archived contact-form submission. CreatedAt is stored in
// "YYYY-MM-DD HH:MM:SS" form, which is also the export wire format.
type Message struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	AuthorID  int64  `json:"author_id"`
	CreatedAt string `json:"created_at"`
}

type Channel struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Ctime int64  `json:"ctime"`
}
