package flickr

import "github.com/mitchellh/mapstructure"

// Info is the pagination metadata carried by list-returning operations.
type Info struct {
	Page    int `mapstructure:"page"`
	Pages   int `mapstructure:"pages"`
	PerPage int `mapstructure:"perpage"`
	Total   int `mapstructure:"total"`
}

// List wraps one page of a multi-page result set.
type List[T any] struct {
	Items []T
	Info  Info
}

// parseInfo decodes pagination metadata from a payload section, tolerating
// the wire format's habit of sending counters as strings.
func parseInfo(section map[string]any) Info {
	var info Info
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &info,
	})
	if err != nil {
		return info
	}
	_ = dec.Decode(section)
	return info
}
