package user

// SearchUsersQuery is the query string of GET /api/users.
type SearchUsersQuery struct {
	Name string `form:"name" binding:"max=100"`
}
