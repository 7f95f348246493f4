package gamedto

// Envelope wraps every JSON response: Body is the payload on success and a DomainError otherwise.
type Envelope[T any] struct {
	Status int `json:"status"`
	Body   T   `json:"body"`
}

type Health struct {
	OK      bool     `json:"ok"`
	Store   string   `json:"store"`
	Locales []string `json:"locales"`
}
