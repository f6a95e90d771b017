package domain

// Page is one slice of a list result plus the metadata needed to walk the
// whole set.
type Page struct {
	Content       []IntakeRecord `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	First         bool           `json:"first"`
	Last          bool           `json:"last"`
}

// NewPage assembles page metadata for the given slice. An empty result set
// has zero pages and is both first and last.
func NewPage(content []IntakeRecord, page, size int, total int64) Page {
	totalPages := int((total + int64(size) - 1) / int64(size))
	if content == nil {
		content = []IntakeRecord{}
	}
	return Page{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}
