package model

// MessageResponse is the universal envelope for non-resource responses:
// confirmations, validation failures, and errors alike carry a single
// French message.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterResponse is returned by POST /auth/register.
type RegisterResponse struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
	Token   string     `json:"token"`
}

// IngredientsResponse is returned by the picture-recognition endpoint.
type IngredientsResponse struct {
	Ingredients []string `json:"ingredients"`
}
