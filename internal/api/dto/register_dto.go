package dto

type RegisterDTO struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=50"`

	// 内测期注册需要订阅令牌
	SubscriptionToken string `json:"subscription_token" validate:"required"`
}

type CredentialDTO struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password string  `json:"password" validate:"required"`
}
