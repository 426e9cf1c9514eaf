package httpresp

type ErrorResponse struct {
	Error string `json:"error"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type StatusResponse struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

type StatsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

func NewTokenResponse(token string) TokenResponse {
	return TokenResponse{Token: token}
}

func NewUserResponse(id, email string) UserResponse {
	return UserResponse{ID: id, Email: email}
}
