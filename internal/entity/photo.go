package entity

// PhotoKind discriminates the photo reference variants. The variant form
// makes "at most one of URL/inline is populated" structural instead of
// conventional.
type PhotoKind int

const (
	PhotoNone PhotoKind = iota
	PhotoURL
	PhotoInline
)

type PhotoRef struct {
	Kind  PhotoKind `json:"kind"`
	Value string    `json:"value,omitempty"`
}

func NewURLPhoto(url string) PhotoRef {
	return PhotoRef{Kind: PhotoURL, Value: url}
}

func NewInlinePhoto(dataURL string) PhotoRef {
	return PhotoRef{Kind: PhotoInline, Value: dataURL}
}

// PhotoRefFromColumns rebuilds the variant from the two persisted columns,
// preferring the URL form.
func PhotoRefFromColumns(url, inline string) PhotoRef {
	switch {
	case url != "":
		return NewURLPhoto(url)
	case inline != "":
		return NewInlinePhoto(inline)
	default:
		return PhotoRef{}
	}
}

func (p PhotoRef) URL() string {
	if p.Kind == PhotoURL {
		return p.Value
	}
	return ""
}

func (p PhotoRef) Inline() string {
	if p.Kind == PhotoInline {
		return p.Value
	}
	return ""
}

func (p PhotoRef) IsZero() bool {
	return p.Kind == PhotoNone
}
