package giphy

import (
	"encoding/json"

	"github.com/nikbrunner/gifpick/internal/model"
)

type gifObject struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Images struct {
		DownsizedSmall struct {
			MP4 string `json:"mp4"`
		} `json:"downsized_small"`
		FixedHeight struct {
			MP4 string `json:"mp4"`
		} `json:"fixed_height"`
	} `json:"images"`
}

type meta struct {
	Status     int    `json:"status"`
	Msg        string `json:"msg"`
	ResponseID string `json:"response_id"`
}

type pagination struct {
	TotalCount int `json:"total_count"`
	Count      int `json:"count"`
	Offset     int `json:"offset"`
}

type searchResponse struct {
	Data       []gifObject `json:"data"`
	Meta       meta        `json:"meta"`
	Pagination pagination  `json:"pagination"`
}

// randomResponse keeps data raw: the endpoint answers with an empty
// array instead of an object when it has nothing to return.
type randomResponse struct {
	Data json.RawMessage `json:"data"`
	Meta meta            `json:"meta"`
}

// toItem converts the API representation into a model.Item.
func (g gifObject) toItem() model.Item {
	preview := g.Images.DownsizedSmall.MP4
	if preview == "" {
		preview = g.Images.FixedHeight.MP4
	}
	return model.Item{
		ID:           g.ID,
		Title:        g.Title,
		PreviewURL:   preview,
		CanonicalURL: g.URL,
	}
}
