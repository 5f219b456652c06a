package catalog

// Character mirrors the upstream character resource.
type Character struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   string   `json:"gender"`
	Origin   Origin   `json:"origin"`
	Location Location `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
	URL      string   `json:"url"`
	Created  string   `json:"created"`
}

// Origin is the place a character comes from.
type Origin struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Location is the last known place of a character.
type Location struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Info is the pagination block of a listing. Next and Prev are empty when
// the upstream sends null.
type Info struct {
	Count int    `json:"count"`
	Pages int    `json:"pages"`
	Next  string `json:"next"`
	Prev  string `json:"prev"`
}

// CharacterInfo is one page of the character listing.
type CharacterInfo struct {
	Info    Info        `json:"info"`
	Results []Character `json:"results"`
}
