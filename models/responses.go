package models

import "time"

// LoginResponse 登录响应结构体
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// PredictResponse 情绪识别响应结构体
type PredictResponse struct {
	ID          string             `json:"id"`
	Prediction  string             `json:"prediction"`
	Probability map[string]float64 `json:"probability"`
}

// UserResponse 用户信息响应结构体
type UserResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	EntryCount int64     `json:"entry_count"`
}
