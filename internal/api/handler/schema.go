package handler

// messageResponse is the envelope for every API reply that carries no data,
// errors included.
type messageResponse struct {
	Message string `json:"message" example:"Login successful"`
}

// --- Request / Response types ---

type registerRequest struct {
	UID      string `json:"uid"      validate:"required,max=64"            example:"C1001"`
	Username string `json:"uname"    validate:"required,max=64,printascii"  example:"alice"`
	Password string `json:"password" validate:"required,max=72"            example:"s3cret!"`
	Email    string `json:"email"    validate:"required,email,max=255"     example:"alice@example.com"`
	Phone    string `json:"phone"    validate:"required,max=32"            example:"+15550100"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required" example:"alice"`
	Password string `json:"password" validate:"required" example:"s3cret!"`
}

type balanceResponse struct {
	Balance float64 `json:"balance" example:"100000"`
}

type pingResponse struct {
	Status  string `json:"status"  example:"ok"`
	Message string `json:"message" example:"pong"`
}
