package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

const DefaultPageSize = 10

// ListParams holds offset pagination shared by list endpoints.
// From is a row offset, Size a row limit.
type ListParams struct {
	From int  `form:"from" binding:"min=0"`
	Size *int `form:"size" binding:"omitempty,min=1"`
}

// Offset returns the number of rows to skip.
func (p ListParams) Offset() int {
	return p.From
}

// Limit returns the page size, falling back to DefaultPageSize.
func (p ListParams) Limit() int {
	if p.Size == nil {
		return DefaultPageSize
	}
	return *p.Size
}
