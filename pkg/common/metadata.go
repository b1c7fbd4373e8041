package common

// PagedResult contains the pagination envelope Redmine attaches to every
// collection response.
//
// The same three fields drive the Paginator's stop conditions: a response
// that echoes no limit is treated as non-paginated, and the fetch loop ends
// once offset has reached total_count.
type PagedResult struct {
	TotalCount int `json:"total_count"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
}
