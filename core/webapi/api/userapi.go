/*
SteadyOps - 服务器管理控制台

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
// core/webapi/api/userapi.go
// 操作员账号管理API

package api

import (
	"net/http"
	"strconv"

	"SteadyOps/core/database"
	"SteadyOps/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// UserResponse 用户响应结构体（不包含密码）
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// CreateUserRequest 创建用户请求结构体
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"` // 邮箱为可选项
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// UpdateUserRequest 更新用户请求结构体
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ChangePasswordRequest 修改密码请求结构体
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UsersListResponse 用户列表响应结构体
type UsersListResponse struct {
	Users    []UserResponse `json:"users"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

func toUserResponse(user *database.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// GetUsersHandler 获取用户列表处理器，支持分页查询
func GetUsersHandler(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}

	users, total, err := database.GetAllUsers(page, pageSize)
	if err != nil {
		middleware.SendErrorResponseGin(c, http.StatusInternalServerError, err.Error())
		return
	}

	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = toUserResponse(&users[i])
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "查询成功", UsersListResponse{
		Users:    userResponses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// CreateUserHandler 创建用户处理器
func CreateUserHandler(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, "无效的请求体")
		return
	}

	user := &database.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}

	if err := database.CreateUser(user); err != nil {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, err.Error())
		return
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "用户创建成功", toUserResponse(user))
}

// UpdateUserHandler 更新用户信息处理器
func UpdateUserHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	user, err := database.GetUserByID(uint(id))
	if err != nil {
		middleware.SendErrorResponseGin(c, http.StatusNotFound, err.Error())
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, "无效的请求体")
		return
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}

	if err := database.UpdateUser(user); err != nil {
		middleware.SendErrorResponseGin(c, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "用户更新成功", toUserResponse(user))
}

// DeleteUserHandler 删除用户处理器，默认管理员受保护
func DeleteUserHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	if err := database.DeleteUser(uint(id)); err != nil {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, err.Error())
		return
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "用户删除成功", nil)
}

// ChangePasswordHandler 修改密码处理器，须先验证旧密码
func ChangePasswordHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, "无效的请求体")
		return
	}

	user, err := database.GetUserByID(uint(id))
	if err != nil {
		middleware.SendErrorResponseGin(c, http.StatusNotFound, err.Error())
		return
	}

	if _, valid := database.ValidateUserWithDB(user.Username, req.OldPassword); !valid {
		middleware.SendErrorResponseGin(c, http.StatusUnauthorized, "旧密码错误")
		return
	}

	user.Password = req.NewPassword
	if err := database.UpdateUser(user); err != nil {
		middleware.SendErrorResponseGin(c, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "密码修改成功", nil)
}
