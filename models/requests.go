package models

import "strings"

// RegisterRequest 注册请求结构体
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize 去除首尾空白，邮箱统一小写
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = normalizeEmail(r.Email)
}

// LoginRequest 登录请求结构体
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

// PredictRequest 情绪识别请求结构体，字段名沿用客户端的拼写
type PredictRequest struct {
	Text              string `json:"text"`
	SelectedDairyDate string `json:"selected_dairy_date"`
}

// EmotionReportRequest 情绪报告请求结构体，日期格式 YYYY-MM-DD
type EmotionReportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
