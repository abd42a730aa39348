package dto

// ListParams carries token-based pagination parameters shared by list endpoints.
type ListParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken" binding:"omitempty"`
}
