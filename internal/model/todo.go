package model

// TodoList is a named collection of items owned by exactly one user.
//
// CreatedAt is a fixed-width UTC ISO-8601 string (see service.TimeLayout),
// produced by the service layer and passed into the store unchanged. Keeping
// it a string means the value the client sees is byte-for-byte the value the
// database ordered by.
//
// Items is never nil — an empty list marshals as "items": [] rather than
// "items": null, which is what the frontend expects.
type TodoList struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Title     string     `json:"title"`
	CreatedAt string     `json:"createdAt"`
	Items     []TodoItem `json:"items"`
}

// TodoItem is a single entry in a list.
type TodoItem struct {
	ID        int64  `json:"id"`
	ListID    int64  `json:"listId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}
