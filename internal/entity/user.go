package entity

// UserLoginData is the identity carried by a verified access token.
type UserLoginData struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (u UserLoginData) GetID() string {
	return u.ID
}
