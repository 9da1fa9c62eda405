package types

// Element kinds in the account library.
const (
	ElementTypeImage = "image"
	ElementTypeVideo = "video"
)

// CreateImageElementRequest builds a character element from one or more
// reference images.
type CreateImageElementRequest struct {
	ImageList []ImageRef `json:"image_list"`
	Name      string     `json:"name,omitempty"`
}

// CreateVideoElementRequest builds a character element from a short video
// (3-8 seconds), capturing both appearance and voice.
type CreateVideoElementRequest struct {
	VideoURL string `json:"video_url"`
	Name     string `json:"name,omitempty"`
}

// ElementCreated is the response body of element-creating POSTs.
type ElementCreated struct {
	ElementID int64 `json:"element_id"`
}

// ElementResult describes one element in the library.
type ElementResult struct {
	ElementID int64  `json:"element_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}
