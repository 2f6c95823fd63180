package dto

// ListParams defines query parameters for token-paginated lists.
type ListParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
}
