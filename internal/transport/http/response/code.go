package response

// 跨 handler 复用的错误文案集中在这里管理
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgUnauthorized       = "Unauthorized"
	MsgInvalidBookID      = "Invalid book ID"
	MsgBookNotFound       = "Book not found"
)
