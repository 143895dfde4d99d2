package dto

import "github.com/Additional-Code/purchasehub/internal/entity"

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Level    string `json:"level"`
	Status   string `json:"status"`
}

func (r CreateUserRequest) Entity() *entity.User {
	return &entity.User{
		Name:     r.Name,
		Email:    r.Email,
		Username: r.Username,
		Password: r.Password,
		Level:    orDefault(r.Level, entity.LevelUser),
		Status:   orDefault(r.Status, entity.StatusOn),
	}
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Level    *string `json:"level"`
	Status   *string `json:"status"`
}

func (r UpdateUserRequest) Apply(u *entity.User) {
	setString(&u.Name, r.Name)
	setString(&u.Email, r.Email)
	setString(&u.Username, r.Username)
	setString(&u.Password, r.Password)
	setString(&u.Level, r.Level)
	setString(&u.Status, r.Status)
}
