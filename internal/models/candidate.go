package models

// Candidate is the account returned by the backend on login and signup.
type Candidate struct {
	ID    int     `json:"ID"`
	Name  string  `json:"nome"`
	Email string  `json:"email"`
	Age   *int    `json:"idade,omitempty"`
	Sex   *string `json:"sexo,omitempty"`
}

type SignupRequest struct {
	Name     string  `json:"nome"`
	Email    string  `json:"email"`
	Password string  `json:"senha"`
	Age      *int    `json:"idade,omitempty"`
	Sex      *string `json:"sexo,omitempty"`
}
